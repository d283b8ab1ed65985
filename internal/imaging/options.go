// Package imaging selects and applies image-compression strategies for
// uploaded photos: named presets, caller-supplied tuples, or a size-tiered
// "smart" mode, with a primary encoder and a simpler fallback path.
package imaging

// Options is one compression configuration tuple, the same shape for
// presets, smart tiers and caller-supplied custom configs.
type Options struct {
	// MaxSizeMB is the target output size. The primary path lowers quality
	// iteratively until the target is met or the quality floor is reached.
	MaxSizeMB float64 `yaml:"max_size_mb"`

	// MaxDimension bounds both width and height; aspect ratio is preserved.
	MaxDimension int `yaml:"max_dimension"`

	// Quality in (0,1], mapped to the encoder's quality scale.
	Quality float64 `yaml:"quality"`

	// FileType is the output MIME type. Empty means image/jpeg.
	FileType string `yaml:"file_type"`

	// UseWorker is a performance hint for the underlying encoder, not a
	// concurrency contract; correctness never depends on it.
	UseWorker bool `yaml:"use_worker"`

	// PreserveMetadata keeps EXIF data when the encoder supports it.
	PreserveMetadata bool `yaml:"preserve_metadata"`
}

// Mode selects how Compress resolves its Options.
type Mode string

const (
	ModeSmart  Mode = "smart"
	ModePreset Mode = "preset"
	ModeCustom Mode = "custom"
)

// Config is the per-call compression request.
type Config struct {
	Mode   Mode
	Preset string   // preset name when Mode == ModePreset
	Custom *Options // caller tuple when Mode == ModeCustom
}

// SmartConfig is the common case: pick a tier from the file size alone.
var SmartConfig = Config{Mode: ModeSmart}

const megabyte = 1 << 20

// SmartOptions picks a configuration tier purely from the input size.
func SmartOptions(sizeBytes int64) Options {
	switch {
	case sizeBytes <= 1*megabyte:
		// Small input: keep quality high, cap size modestly.
		return Options{MaxSizeMB: 1, MaxDimension: 2048, Quality: 0.9, FileType: MimeJPEG}
	case sizeBytes <= 5*megabyte:
		return presetOrDefault(PresetPost)
	case sizeBytes <= 10*megabyte:
		return Options{MaxSizeMB: 1.5, MaxDimension: 1600, Quality: 0.7, FileType: MimeJPEG}
	default:
		// Very large input: smallest dimension cap, lowest quality.
		return Options{MaxSizeMB: 1, MaxDimension: 1280, Quality: 0.6, FileType: MimeJPEG}
	}
}

// FitWithin computes the output dimensions for a max-dimension bound. When
// both dimensions are already within the bound the input is returned
// unchanged; otherwise the larger dimension is scaled to the bound and the
// smaller proportionally, rounded to the nearest integer.
func FitWithin(width, height, max int) (int, int) {
	if max <= 0 || (width <= max && height <= max) {
		return width, height
	}

	if width >= height {
		scaled := int(float64(height)*float64(max)/float64(width) + 0.5)
		if scaled < 1 {
			scaled = 1
		}
		return max, scaled
	}

	scaled := int(float64(width)*float64(max)/float64(height) + 0.5)
	if scaled < 1 {
		scaled = 1
	}
	return scaled, max
}
