package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/improc"
	"github.com/gogpu/improc/convolution"
	"github.com/gogpu/improc/internal/imageio"
	"github.com/gogpu/improc/kernel"
	"github.com/gogpu/improc/process"
)

// filterFlags are the flags shared by every filtering command.
type filterFlags struct {
	radius    float64
	border    string
	normalize bool
	legacy    bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64VarP(&f.radius, "radius", "r", 1, "radius of box and gaussian kernels")
	fl.StringVarP(&f.border, "border", "b", improc.DefaultBorderPolicy.String(), "border policy (see 'improc policies')")
	fl.BoolVar(&f.normalize, "normalize", true, "divide by the kernel sum")
	fl.BoolVar(&f.legacy, "legacy", false, "use the historical mirror-style border mapping")
}

func (f *filterFlags) policy() (improc.BorderPolicy, error) {
	if f.legacy {
		return improc.MirrorImage, nil
	}
	p, err := improc.ParseBorderPolicy(f.border)
	if err != nil {
		return 0, fmt.Errorf("--border %q: %w", f.border, err)
	}
	return p, nil
}

// chain builds one convolution stage per kernel name.
func (f *filterFlags) chain(kernels []string) (*process.Chain, []process.Stage, error) {
	policy, err := f.policy()
	if err != nil {
		return nil, nil, err
	}

	stages := make([]process.Stage, 0, len(kernels))
	for _, name := range kernels {
		k, err := kernel.ByName(name, f.radius)
		if err != nil {
			return nil, nil, err
		}
		stages = append(stages, process.Stage{
			Contract: convolution.NewContract(),
			Params: map[string]any{
				convolution.PortKernel:       improc.PixelBuffer(k),
				convolution.PortNormalize:    f.normalize,
				convolution.PortBorderPolicy: policy,
			},
		})
	}
	ch, err := process.NewChain(stages...)
	if err != nil {
		return nil, nil, err
	}
	return ch, stages, nil
}

// ioFlags name the input and output file of a single-image command.
type ioFlags struct {
	in, out string
}

func (f *ioFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.in, "in", "i", "", "input image (png, jpeg, bmp, tiff)")
	fl.StringVarP(&f.out, "out", "o", "", "output image; the format follows the extension")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
}

func newConvolveCmd() *cobra.Command {
	var (
		flags   filterFlags
		files   ioFlags
		kernels []string
	)

	cmd := &cobra.Command{
		Use:   "convolve",
		Short: "Apply one or more kernels in sequence",
		Long: `Apply one or more kernels in sequence. Each --kernel adds a stage to the
pipeline; the output image of a stage is the input of the next.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain, stages, err := flags.chain(kernels)
			if err != nil {
				return err
			}

			src, err := imageio.Load(files.in)
			if err != nil {
				return err
			}
			out, err := chain.Run(cmd.Context(), src)
			if err != nil {
				return err
			}
			for i, s := range stages {
				improc.Logger().Info("stage done",
					slog.Int("stage", i),
					slog.String("kernel", kernels[i]),
					slog.Duration("elapsed", s.Contract.LastDuration()))
			}

			if err := imageio.Save(files.out, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", files.in, files.out, out)
			return nil
		},
	}
	flags.register(cmd)
	files.register(cmd)
	cmd.Flags().StringSliceVarP(&kernels, "kernel", "k", []string{"gaussian"}, "kernel name, repeatable (see 'improc kernels')")
	return cmd
}

func newIterateCmd() *cobra.Command {
	var (
		flags  filterFlags
		files  ioFlags
		name   string
		passes int
	)

	cmd := &cobra.Command{
		Use:   "iterate",
		Short: "Apply one kernel several times",
		Long: `Apply one kernel several times. Intermediate images are recycled through a
buffer pool, so memory use does not grow with the number of passes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passes < 1 {
				return fmt.Errorf("--passes must be at least 1, got %d", passes)
			}
			policy, err := flags.policy()
			if err != nil {
				return err
			}
			k, err := kernel.ByName(name, flags.radius)
			if err != nil {
				return err
			}
			src, err := imageio.Load(files.in)
			if err != nil {
				return err
			}

			opts := []convolution.Option{
				convolution.WithNormalize(flags.normalize),
				convolution.WithBorderPolicy(policy),
			}
			if flags.legacy {
				opts = append(opts, convolution.WithLegacyBorder())
			}

			out, err := iterate(improc.NewPool(2), src, k, passes, opts...)
			if err != nil {
				return err
			}
			if err := imageio.Save(files.out, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %d passes)\n", files.in, files.out, out, passes)
			return nil
		},
	}
	flags.register(cmd)
	files.register(cmd)
	cmd.Flags().StringVarP(&name, "kernel", "k", "gaussian", "kernel name (see 'improc kernels')")
	cmd.Flags().IntVarP(&passes, "passes", "n", 2, "number of passes")
	return cmd
}

// iterate convolves src with k passes times. Each pass writes into a buffer
// taken from pool; the previous intermediate is returned to it. On error
// every intermediate is back in the pool.
func iterate(pool *improc.Pool, src, k improc.PixelBuffer, passes int, opts ...convolution.Option) (improc.PixelBuffer, error) {
	current := src
	release := func() {
		if current != src {
			pool.Put(current)
		}
	}
	for i := range passes {
		size := convolution.OutputSizeOf(current, k, opts...)
		dst, err := pool.Get(current.Type(), size.Width(), size.Height())
		if err != nil {
			release()
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
		if err := convolution.ConvolveInto(dst, current, k, opts...); err != nil {
			pool.Put(dst)
			release()
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
		release()
		current = dst
	}
	return current, nil
}
