package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
)

// Output MIME types the encoders understand.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"
	MimeGIF  = "image/gif"
)

// SourceImage is one image handed to compression: raw bytes plus the
// metadata the upload form supplied.
type SourceImage struct {
	Name     string
	MimeType string
	Data     []byte
}

// Result describes one compression outcome. When Success is false the file
// carries the original bytes unchanged: the caller decides whether to upload
// the original anyway.
type Result struct {
	File             []byte
	FileType         string
	OriginalSize     int64
	CompressedSize   int64
	CompressionRatio int // percent saved, rounded
	Success          bool
	Error            string
}

// Compressor is one compression strategy. Implementations return the
// encoded bytes and their MIME type, or an error for the selector to
// recover from.
type Compressor interface {
	Name() string
	Compress(ctx context.Context, src SourceImage, opts Options) ([]byte, string, error)
}

// Probe checks whether a compressor can actually encode on this runtime by
// pushing a tiny synthetic image through it. Strategy availability is
// decided once at startup rather than per call.
func Probe(c Compressor) bool {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return false
	}

	src := SourceImage{Name: "probe.jpg", MimeType: MimeJPEG, Data: buf.Bytes()}
	_, _, err := c.Compress(context.Background(), src, Options{MaxDimension: 2, Quality: 0.8})
	return err == nil
}

// ratio computes the rounded percentage saved. Guarded against zero-sized
// originals so the invariant ratio==0 holds on degenerate input.
func ratio(originalSize, compressedSize int64) int {
	if originalSize <= 0 || compressedSize >= originalSize {
		return 0
	}
	return int(100*(1-float64(compressedSize)/float64(originalSize)) + 0.5)
}
