package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name           string
		w, h, max      int
		wantW, wantH   int
	}{
		{"both within bounds", 800, 600, 1920, 800, 600},
		{"exact bound", 1920, 1080, 1920, 1920, 1080},
		{"landscape scaled", 4000, 3000, 2000, 2000, 1500},
		{"portrait scaled", 3000, 4000, 2000, 1500, 2000},
		{"square scaled", 3000, 3000, 1500, 1500, 1500},
		{"rounding to nearest", 1000, 333, 500, 500, 167},
		{"zero max is no-op", 4000, 3000, 0, 4000, 3000},
		{"extreme ratio floors at one", 10000, 1, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.w, tt.h, tt.max)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitWithin(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSmartOptionsTiers(t *testing.T) {
	tests := []struct {
		name      string
		sizeBytes int64
		wantDim   int
	}{
		{"small stays light", 512 * 1024, 2048},
		{"exactly 1MB still light", 1 * megabyte, 2048},
		{"mid uses post preset", 3 * megabyte, 1920},
		{"large gets stronger compression", 8 * megabyte, 1600},
		{"very large most aggressive", 15 * megabyte, 1280},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := SmartOptions(tt.sizeBytes)
			if opts.MaxDimension != tt.wantDim {
				t.Errorf("SmartOptions(%d).MaxDimension = %d, want %d",
					tt.sizeBytes, opts.MaxDimension, tt.wantDim)
			}
		})
	}

	// Quality must decrease monotonically across tiers.
	small := SmartOptions(100 * 1024)
	large := SmartOptions(8 * megabyte)
	huge := SmartOptions(20 * megabyte)
	if !(small.Quality > large.Quality && large.Quality > huge.Quality) {
		t.Errorf("tier qualities not monotonic: %v > %v > %v expected",
			small.Quality, large.Quality, huge.Quality)
	}
}

func TestPresetOptions(t *testing.T) {
	for _, name := range []string{PresetAvatar, PresetPost, PresetThumbnail, PresetHighQuality} {
		opts, err := PresetOptions(name)
		require.NoError(t, err, name)
		assert.Greater(t, opts.MaxDimension, 0, name)
		assert.Greater(t, opts.Quality, 0.0, name)
	}

	_, err := PresetOptions("nope")
	assert.Error(t, err)

	// The avatar preset is the tightest dimension cap.
	avatar, _ := PresetOptions(PresetAvatar)
	post, _ := PresetOptions(PresetPost)
	assert.Less(t, avatar.MaxDimension, post.MaxDimension)
}

func TestSelectorCompressShrinksLargeImage(t *testing.T) {
	src := SourceImage{Name: "big.png", MimeType: MimePNG, Data: noisePNG(t, 1500, 1500)}
	require.Greater(t, int64(len(src.Data)), int64(5*megabyte), "fixture must land in the 5-10MB smart tier")

	sel := NewSelector(testLogger())
	res := sel.Compress(context.Background(), src, SmartConfig)

	require.True(t, res.Success, res.Error)
	assert.Less(t, res.CompressedSize, res.OriginalSize)
	assert.Equal(t, int64(len(src.Data)), res.OriginalSize)
	assert.Equal(t, int64(len(res.File)), res.CompressedSize)

	// Ratio invariant: round(100 * (1 - compressed/original)).
	want := int(100*(1-float64(res.CompressedSize)/float64(res.OriginalSize)) + 0.5)
	assert.Equal(t, want, res.CompressionRatio)

	// The 5-10MB tier caps dimensions at 1600.
	img, _, err := image.Decode(bytes.NewReader(res.File))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 1600)
	assert.LessOrEqual(t, img.Bounds().Dy(), 1600)
}

func TestSelectorCompressTotalFailure(t *testing.T) {
	src := SourceImage{Name: "garbage.jpg", MimeType: MimeJPEG, Data: []byte("not an image")}

	sel := NewSelector(testLogger())
	res := sel.Compress(context.Background(), src, SmartConfig)

	assert.False(t, res.Success)
	assert.Equal(t, res.OriginalSize, res.CompressedSize)
	assert.Equal(t, 0, res.CompressionRatio)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, src.Data, res.File, "original bytes are kept for the caller to upload")
}

func TestSelectorFallsBackWhenPrimaryFails(t *testing.T) {
	sel := NewSelectorWith(failingCompressor{}, NewFallbackCompressor(), testLogger())

	src := SourceImage{Name: "photo.jpg", MimeType: MimeJPEG, Data: noiseJPEG(t, 900, 700)}
	res := sel.Compress(context.Background(), src, Config{
		Mode:   ModeCustom,
		Custom: &Options{MaxDimension: 300, Quality: 0.7},
	})

	require.True(t, res.Success, res.Error)
	img, _, err := image.Decode(bytes.NewReader(res.File))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 300)
}

func TestSelectorCustomModeRequiresOptions(t *testing.T) {
	sel := NewSelector(testLogger())
	res := sel.Compress(context.Background(), SourceImage{Name: "x.jpg", Data: noiseJPEG(t, 50, 50)}, Config{Mode: ModeCustom})
	assert.False(t, res.Success)
	assert.Equal(t, 0, res.CompressionRatio)
}

func TestSelectorKeepsOriginalWhenReencodeGrows(t *testing.T) {
	// A tiny, already-optimal JPEG usually grows when re-encoded at high
	// quality; the selector keeps the original with zero savings.
	data := noiseJPEG(t, 20, 20)
	src := SourceImage{Name: "tiny.jpg", MimeType: MimeJPEG, Data: data}

	sel := NewSelector(testLogger())
	res := sel.Compress(context.Background(), src, SmartConfig)

	require.True(t, res.Success)
	assert.LessOrEqual(t, res.CompressedSize, res.OriginalSize)
	if res.CompressedSize == res.OriginalSize {
		assert.Equal(t, 0, res.CompressionRatio)
		assert.Equal(t, data, res.File)
	}
}

func TestProbe(t *testing.T) {
	assert.True(t, Probe(NewPrimaryCompressor()))
	assert.True(t, Probe(NewFallbackCompressor()))
	assert.False(t, Probe(failingCompressor{}))
}

func TestCompressRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewPrimaryCompressor().Compress(ctx, SourceImage{Data: noiseJPEG(t, 50, 50)}, Options{Quality: 0.8})
	assert.ErrorIs(t, err, context.Canceled)
}

type failingCompressor struct{}

func (failingCompressor) Name() string { return "failing" }
func (failingCompressor) Compress(context.Context, SourceImage, Options) ([]byte, string, error) {
	return nil, "", errors.New("backend unavailable")
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// noisePNG renders incompressible noise so the fixture lands in a
// predictable smart tier by size.
func noisePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func noiseJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}
