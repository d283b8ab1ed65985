package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif" // register decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

// qualityFloor is the lowest JPEG quality the size loop will reach before
// giving up on the size target.
const qualityFloor = 30

// PrimaryCompressor is the full-featured path: high-quality Catmull-Rom
// scaling and an iterative encode loop that lowers quality until the size
// target is met.
type PrimaryCompressor struct{}

func NewPrimaryCompressor() *PrimaryCompressor { return &PrimaryCompressor{} }

func (c *PrimaryCompressor) Name() string { return "primary" }

func (c *PrimaryCompressor) Compress(ctx context.Context, src SourceImage, opts Options) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	img, _, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", src.Name, err)
	}

	img = scaleToFit(img, opts.MaxDimension, draw.CatmullRom)

	outType := opts.FileType
	if outType == "" {
		outType = MimeJPEG
	}

	switch outType {
	case MimePNG:
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), MimePNG, nil

	case MimeJPEG:
		data, err := encodeJPEGToSize(ctx, img, opts)
		if err != nil {
			return nil, "", err
		}
		return data, MimeJPEG, nil

	default:
		return nil, "", fmt.Errorf("unsupported output type %q", outType)
	}
}

// encodeJPEGToSize encodes at the requested quality, then steps quality
// down until the MaxSizeMB target is met or the floor is reached. The last
// encode wins even when the target was missed; a slightly-too-large output
// beats failing the upload.
func encodeJPEGToSize(ctx context.Context, img image.Image, opts Options) ([]byte, error) {
	quality := jpegQuality(opts.Quality)
	targetBytes := int64(opts.MaxSizeMB * megabyte)

	var buf bytes.Buffer
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}

		if targetBytes <= 0 || int64(buf.Len()) <= targetBytes || quality <= qualityFloor {
			return append([]byte(nil), buf.Bytes()...), nil
		}
		quality -= 10
		if quality < qualityFloor {
			quality = qualityFloor
		}
	}
}

// jpegQuality maps the (0,1] option scale to the encoder's 1-100 scale.
func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		return jpeg.DefaultQuality
	}
	quality := int(q*100 + 0.5)
	if quality < 1 {
		quality = 1
	}
	return quality
}

// scaleToFit scales an image so neither dimension exceeds max, preserving
// aspect ratio. A no-op when already within bounds.
func scaleToFit(img image.Image, max int, kernel draw.Interpolator) image.Image {
	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	kernel.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
