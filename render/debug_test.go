package render

import (
	"bytes"
	"image/png"
	"testing"
)

func TestMaskPreview(t *testing.T) {
	data := make([]byte, 4*2)
	data[0] = 255
	data[5] = 128

	img, err := MaskPreview(data, 4, 2, 0)
	if err != nil {
		t.Fatalf("MaskPreview failed: %v", err)
	}
	if got := img.Bounds().Dx(); got != 4 {
		t.Errorf("width = %d, want 4", got)
	}
	if got := img.GrayAt(0, 0).Y; got != 255 {
		t.Errorf("pixel (0,0) = %d, want 255", got)
	}
	if got := img.GrayAt(1, 1).Y; got != 128 {
		t.Errorf("pixel (1,1) = %d, want 128", got)
	}
}

func TestMaskPreview_Downscale(t *testing.T) {
	const w, h = 256, 128
	data := make([]byte, w*h)
	for i := range data {
		data[i] = 200
	}

	img, err := MaskPreview(data, w, h, 64)
	if err != nil {
		t.Fatalf("MaskPreview failed: %v", err)
	}
	if got := img.Bounds().Dx(); got != 64 {
		t.Errorf("scaled width = %d, want 64", got)
	}
	if got := img.Bounds().Dy(); got != 32 {
		t.Errorf("scaled height = %d, want 32", got)
	}
	// Uniform input stays uniform through the resampler.
	if got := img.GrayAt(10, 10).Y; got < 195 || got > 205 {
		t.Errorf("scaled pixel = %d, want about 200", got)
	}
}

func TestMaskPreview_Errors(t *testing.T) {
	if _, err := MaskPreview(nil, 0, 4, 0); err == nil {
		t.Error("zero width should fail")
	}
	if _, err := MaskPreview(make([]byte, 3), 2, 2, 0); err == nil {
		t.Error("short buffer should fail")
	}
}

func TestWriteMaskPNG(t *testing.T) {
	data := make([]byte, 8*8)
	var buf bytes.Buffer
	if err := WriteMaskPNG(&buf, data, 8, 8, 0); err != nil {
		t.Fatalf("WriteMaskPNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("decoded width = %d, want 8", img.Bounds().Dx())
	}
}
