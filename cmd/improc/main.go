// Command improc applies convolution kernels to image files.
//
// Usage:
//
//	improc convolve --in photo.png --out edges.png --kernel edge --border MirrorImage
//	improc iterate --in photo.png --out soft.png --kernel gaussian --radius 1.5 --passes 4
//	improc batch --kernel sharpen --out-dir out --ext png --jobs 4 scans/*.tiff
//	improc policies
//	improc kernels
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
