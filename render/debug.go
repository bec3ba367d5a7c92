package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// MaskPreview converts a raw single-channel readback of a composite
// target into a grayscale image. The data must hold width*height bytes
// in tight row-major order. When maxDim is positive and either
// dimension exceeds it, the preview is downscaled to fit while keeping
// the aspect ratio.
//
// Intended for debugging and golden tests; the render path never calls
// it.
func MaskPreview(data []byte, width, height, maxDim int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("postfx: invalid preview size %dx%d", width, height)
	}
	if len(data) < width*height {
		return nil, fmt.Errorf("postfx: preview needs %d bytes, got %d", width*height, len(data))
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+width], data[y*width:(y+1)*width])
	}

	if maxDim <= 0 || (width <= maxDim && height <= maxDim) {
		return img, nil
	}

	scale := float64(maxDim) / float64(width)
	if height > width {
		scale = float64(maxDim) / float64(height)
	}
	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	scaled := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return scaled, nil
}

// WriteMaskPNG writes a mask preview as PNG, downscaled to maxDim as in
// [MaskPreview].
func WriteMaskPNG(w io.Writer, data []byte, width, height, maxDim int) error {
	img, err := MaskPreview(data, width, height, maxDim)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
