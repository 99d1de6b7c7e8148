package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/improc"
	"github.com/gogpu/improc/internal/imageio"
	"github.com/gogpu/improc/internal/parallel"
	"github.com/gogpu/improc/process"
)

func newBatchCmd() *cobra.Command {
	var (
		flags   filterFlags
		kernels []string
		outDir  string
		ext     string
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "batch [flags] FILE...",
		Short: "Apply the same kernels to many images",
		Long: `Apply the same kernels to many images. Files are filtered concurrently,
one file per worker; each result is written to --out-dir under the input's
base name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ext != "" {
				if _, err := imageio.FormatFromPath("x." + strings.TrimPrefix(ext, ".")); err != nil {
					return fmt.Errorf("--ext %q: %w", ext, err)
				}
			}
			chain, _, err := flags.chain(kernels)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			pool := parallel.NewWorkerPool(jobs)
			defer pool.Close()

			results := batch(cmd.Context(), pool, chain, args, outDir, ext)
			var errs []error
			for _, r := range results {
				if r.err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", r.in, r.err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%v)\n", r.in, r.out, r.elapsed.Round(time.Microsecond))
			}
			return errors.Join(errs...)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&kernels, "kernel", "k", []string{"gaussian"}, "kernel name, repeatable (see 'improc kernels')")
	cmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "directory for the filtered images")
	cmd.Flags().StringVar(&ext, "ext", "", "output format extension; defaults to the input's")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of images filtered at once (0 means GOMAXPROCS)")
	return cmd
}

// batchResult reports the outcome for one input file.
type batchResult struct {
	in, out string
	elapsed time.Duration
	err     error
}

// errOutputTaken is reported for an input whose output path belongs to an
// earlier input.
var errOutputTaken = errors.New("output path already used by another input")

// batch runs chain over every input on pool. Each task owns its images;
// the chain and its kernels are only read. Results are in input order.
// Inputs that map to an output path already claimed by an earlier input are
// not run and fail with errOutputTaken.
func batch(ctx context.Context, pool *parallel.WorkerPool, chain *process.Chain, inputs []string, outDir, ext string) []batchResult {
	results := make([]batchResult, len(inputs))
	tasks := make([]func(), 0, len(inputs))
	owner := make(map[string]string, len(inputs))
	for i, in := range inputs {
		results[i] = batchResult{in: in, out: outputPath(in, outDir, ext)}
		if prev, ok := owner[results[i].out]; ok {
			results[i].err = fmt.Errorf("%s (from %s): %w", results[i].out, prev, errOutputTaken)
			continue
		}
		owner[results[i].out] = in

		tasks = append(tasks, func() {
			r := &results[i]
			start := time.Now()
			r.err = filterFile(ctx, chain, r.in, r.out)
			r.elapsed = time.Since(start)
			improc.Logger().Debug("batch file",
				slog.String("in", r.in),
				slog.String("out", r.out),
				slog.Duration("elapsed", r.elapsed),
				slog.Bool("ok", r.err == nil))
		})
	}
	pool.ExecuteAll(tasks)
	return results
}

func filterFile(ctx context.Context, chain *process.Chain, in, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := imageio.Load(in)
	if err != nil {
		return err
	}
	img, err := chain.Run(ctx, src)
	if err != nil {
		return err
	}
	return imageio.Save(out, img)
}

// outputPath places the base name of in under dir, replacing its extension
// with ext when ext is set.
func outputPath(in, dir, ext string) string {
	name := filepath.Base(in)
	if ext != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + "." + strings.TrimPrefix(ext, ".")
	}
	return filepath.Join(dir, name)
}
