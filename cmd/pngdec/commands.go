package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/fumiama/pngdec"
	"github.com/fumiama/pngdec/internal/logging"
	"github.com/fumiama/pngdec/internal/source"
	"github.com/fumiama/pngdec/oops"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/webp"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [source]...",
		Short: "Report whether each source starts with the PNG signature",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, src := range args {
				rc, err := source.Open(commandContext(cmd), src)
				if err != nil {
					logging.Error().Err(err).Str("source", src).Msg("could not open source")
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", src, sniff(rc))
				rc.Close()
			}
			if failed > 0 {
				return oops.New(nil, "%d of %d sources could not be opened", failed, len(args))
			}
			return nil
		},
	}
}

// sniff reports whether r is a PNG stream, naming the format and size of
// anything else the image registry recognizes.
func sniff(r io.Reader) string {
	br := bufio.NewReader(r)
	sig, _ := br.Peek(8)
	if pngdec.ValidateHeader(bytes.NewReader(sig)) {
		return "png"
	}
	cfg, format, err := image.DecodeConfig(br)
	if err != nil {
		return "not png"
	}
	return fmt.Sprintf("not png (%s %dx%d)", format, cfg.Width, cfg.Height)
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [source]",
		Short: "Print the header and chunk list of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := source.Open(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			h, chunks, err := pngdec.Inspect(bufio.NewReader(rc))
			out := cmd.OutOrStdout()
			if len(chunks) > 0 {
				fmt.Fprintln(out, h)
			}
			for _, c := range chunks {
				status := "ok"
				if !c.CRCValid {
					status = "BAD"
				}
				fmt.Fprintf(out, "  %v %8d bytes  crc %08x %s\n", c.Type, c.Length, c.CRC, status)
			}
			return err
		},
	}
}

func newPixelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pixel [source] [x] [y]",
		Short: "Print one decoded sample as r g b a",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return oops.New(err, "invalid x coordinate")
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return oops.New(err, "invalid y coordinate")
			}

			img, err := decodeSource(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			c, err := img.Pixel(x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d %d %d\n", c.R, c.G, c.B, c.A)
			return nil
		},
	}
}

func decodeSource(ctx context.Context, src string) (*pngdec.Image, error) {
	rc, err := source.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := pngdec.DecodeImage(bufio.NewReader(rc), decoderOptions()...)
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Str("source", src).
		Str("header", img.Header.String()).
		Int("diagnostics", len(img.Diagnostics)).
		Msg("decoded")
	return img, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
