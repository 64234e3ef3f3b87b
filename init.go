package pngdec

import "image"

func init() {
	image.RegisterFormat("png", pngHeader, Decode, DecodeConfig)
}
