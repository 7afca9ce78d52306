package docmill

import (
	"bytes"
	"image/png"
	"testing"
)

func TestPlaceholderImage_ValidPNG(t *testing.T) {
	t.Parallel()

	data := placeholderImage(ImageSize{Width: 400, Height: 300})

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not a decodable PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 400 || bounds.Dy() != 300 {
		t.Errorf("dimensions = %dx%d, want 400x300", bounds.Dx(), bounds.Dy())
	}
}

func TestPlaceholderImage_Deterministic(t *testing.T) {
	t.Parallel()

	size := ImageSize{Width: 200, Height: 150}

	first := placeholderImage(size)
	second := placeholderImage(size)

	if !bytes.Equal(first, second) {
		t.Error("same size should synthesize identical bytes")
	}
}

func TestPlaceholderImage_FallsBackToDefaultSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size ImageSize
	}{
		{"zero size", ImageSize{}},
		{"zero width", ImageSize{Width: 0, Height: 100}},
		{"zero height", ImageSize{Width: 100, Height: 0}},
		{"negative dimensions", ImageSize{Width: -10, Height: -10}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := placeholderImage(tt.size)

			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("placeholder is not a decodable PNG: %v", err)
			}

			bounds := img.Bounds()
			if bounds.Dx() != DefaultPlaceholderSize.Width || bounds.Dy() != DefaultPlaceholderSize.Height {
				t.Errorf("dimensions = %dx%d, want default %dx%d",
					bounds.Dx(), bounds.Dy(),
					DefaultPlaceholderSize.Width, DefaultPlaceholderSize.Height)
			}
		})
	}
}

func TestPlaceholderImage_VisiblySubstitute(t *testing.T) {
	t.Parallel()

	data := placeholderImage(ImageSize{Width: 100, Height: 80})

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not a decodable PNG: %v", err)
	}

	// Corner pixel sits on the border, a pixel just inside is flat fill.
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 0xCC || g>>8 != 0xCC || b>>8 != 0xCC {
		t.Errorf("corner pixel = #%02x%02x%02x, want border #cccccc", r>>8, g>>8, b>>8)
	}

	r, g, b, _ = img.At(placeholderBorderWidth, placeholderBorderWidth).RGBA()
	if r>>8 != 0xF0 || g>>8 != 0xF0 || b>>8 != 0xF0 {
		t.Errorf("inner pixel = #%02x%02x%02x, want fill #f0f0f0", r>>8, g>>8, b>>8)
	}
}

func TestPlaceholderImage_TinyCanvas(t *testing.T) {
	t.Parallel()

	// Too small for the caption; the image must still encode cleanly.
	data := placeholderImage(ImageSize{Width: 10, Height: 8})

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not a decodable PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 10 || bounds.Dy() != 8 {
		t.Errorf("dimensions = %dx%d, want 10x8", bounds.Dx(), bounds.Dy())
	}
}
