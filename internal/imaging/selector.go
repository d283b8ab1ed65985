package imaging

import (
	"context"
	"fmt"
	"log/slog"
)

// Selector picks a strategy and never lets a compression failure escape:
// total failure yields a Result carrying the original bytes with
// Success=false, leaving the upload decision to the caller.
type Selector struct {
	primary  Compressor
	fallback Compressor
	logger   *slog.Logger
}

// NewSelector builds the selector, probing the primary path once at
// startup. A primary that fails its probe is disabled for the process
// lifetime and every call goes straight to the fallback.
func NewSelector(logger *slog.Logger) *Selector {
	s := &Selector{
		primary:  NewPrimaryCompressor(),
		fallback: NewFallbackCompressor(),
		logger:   logger,
	}
	if !Probe(s.primary) {
		logger.Warn("primary compressor failed capability probe, using fallback only")
		s.primary = nil
	}
	return s
}

// NewSelectorWith wires explicit strategies, primarily for tests. Passing a
// nil primary skips straight to the fallback.
func NewSelectorWith(primary, fallback Compressor, logger *slog.Logger) *Selector {
	return &Selector{primary: primary, fallback: fallback, logger: logger}
}

// Compress resolves the configuration and runs the strategy chain:
// primary, then fallback, then a no-op failure Result.
func (s *Selector) Compress(ctx context.Context, src SourceImage, cfg Config) Result {
	originalSize := int64(len(src.Data))

	opts, err := s.resolve(src, cfg)
	if err != nil {
		return failure(src, originalSize, err)
	}

	if s.primary != nil {
		if res, err := s.run(ctx, s.primary, src, opts, originalSize); err == nil {
			return res
		} else {
			s.logger.Warn("primary compression failed, falling back",
				"file", src.Name,
				"error", err,
			)
		}
	}

	res, err := s.run(ctx, s.fallback, src, opts, originalSize)
	if err != nil {
		s.logger.Warn("fallback compression failed",
			"file", src.Name,
			"error", err,
		)
		return failure(src, originalSize, err)
	}
	return res
}

func (s *Selector) resolve(src SourceImage, cfg Config) (Options, error) {
	switch cfg.Mode {
	case ModeSmart, "":
		return SmartOptions(int64(len(src.Data))), nil
	case ModePreset:
		return PresetOptions(cfg.Preset)
	case ModeCustom:
		if cfg.Custom == nil {
			return Options{}, fmt.Errorf("custom mode requires options")
		}
		return *cfg.Custom, nil
	default:
		return Options{}, fmt.Errorf("unknown compression mode %q", cfg.Mode)
	}
}

func (s *Selector) run(ctx context.Context, c Compressor, src SourceImage, opts Options, originalSize int64) (Result, error) {
	data, mime, err := c.Compress(ctx, src, opts)
	if err != nil {
		return Result{}, err
	}

	// Re-encoding can grow small, already-efficient files. Keep the
	// original in that case; the result still counts as success with zero
	// savings.
	if int64(len(data)) >= originalSize {
		return Result{
			File:           src.Data,
			FileType:       src.MimeType,
			OriginalSize:   originalSize,
			CompressedSize: originalSize,
			Success:        true,
		}, nil
	}

	compressedSize := int64(len(data))
	return Result{
		File:             data,
		FileType:         mime,
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		CompressionRatio: ratio(originalSize, compressedSize),
		Success:          true,
	}, nil
}

// failure builds the never-raises boundary Result: original bytes, original
// size, zero ratio.
func failure(src SourceImage, originalSize int64, err error) Result {
	return Result{
		File:           src.Data,
		FileType:       src.MimeType,
		OriginalSize:   originalSize,
		CompressedSize: originalSize,
		Success:        false,
		Error:          err.Error(),
	}
}
