package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// FallbackCompressor is the secondary path used when the primary encoder is
// unavailable or fails: one bilinear scale and a single JPEG encode at the
// requested quality, no size loop. Mirrors the simpler canvas-style
// resize-and-re-encode strategy.
type FallbackCompressor struct{}

func NewFallbackCompressor() *FallbackCompressor { return &FallbackCompressor{} }

func (c *FallbackCompressor) Name() string { return "fallback" }

func (c *FallbackCompressor) Compress(ctx context.Context, src SourceImage, opts Options) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	img, _, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", src.Name, err)
	}

	img = scaleToFit(img, opts.MaxDimension, draw.ApproxBiLinear)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(opts.Quality)}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), MimeJPEG, nil
}
