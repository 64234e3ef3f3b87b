package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/pngdec/oops"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

func newDecodeCommand() *cobra.Command {
	var (
		output string
		width  int
	)

	decodeCommand := &cobra.Command{
		Use:   "decode [source]",
		Short: "Decode an image and write it out as PNG, BMP or TIFF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return oops.New(nil, "an output file is required (-o)")
			}
			encode, err := encoderFor(output)
			if err != nil {
				return err
			}

			img, err := decodeSource(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			for _, d := range img.Diagnostics {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %v\n", d)
			}

			var out image.Image = img.NRGBA()
			if width > 0 {
				out = scaleToWidth(img, width)
			}

			f, err := os.Create(output)
			if err != nil {
				return oops.New(err, "failed to create output file")
			}
			if err := encode(f, out); err != nil {
				f.Close()
				return oops.New(err, "failed to encode %s", output)
			}
			if err := f.Close(); err != nil {
				return oops.New(err, "failed to write %s", output)
			}

			b := out.Bounds()
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", output, b.Dx(), b.Dy())
			return nil
		},
	}
	decodeCommand.Flags().StringVarP(&output, "output", "o", "", "Output file; the extension picks the format (.png, .bmp, .tif)")
	decodeCommand.Flags().IntVar(&width, "width", 0, "Rescale to this width, keeping the aspect ratio")

	return decodeCommand
}

type encodeFunc func(w io.Writer, img image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		}, nil
	}
	return nil, oops.New(nil, "unsupported output format %q", filepath.Ext(path))
}

func scaleToWidth(src image.Image, width int) image.Image {
	sb := src.Bounds()
	height := 0
	if sb.Dx() > 0 {
		height = sb.Dy() * width / sb.Dx()
	}
	if height < 1 && sb.Dy() > 0 {
		height = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}
