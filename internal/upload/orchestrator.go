package upload

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"plaza/internal/config"
	"plaza/internal/domain"
	"plaza/internal/imaging"
	"plaza/internal/storage"
)

// allowedMimeTypes are the image types accepted for upload.
var allowedMimeTypes = map[string]bool{
	imaging.MimeJPEG: true,
	imaging.MimePNG:  true,
	imaging.MimeWebP: true,
	imaging.MimeGIF:  true,
}

// ProgressFunc reports incremental batch progress: files processed so far,
// total files, and aggregate bytes saved by compression.
type ProgressFunc func(done, total int, savedBytes int64)

// Orchestrator runs the upload pipeline for image batches: quota check,
// per-file validation, sequential compression with running savings, then one
// atomic store of the whole batch.
type Orchestrator struct {
	selector *imaging.Selector
	store    storage.Store
	logger   *slog.Logger
}

// NewOrchestrator wires the compression selector and storage backend.
func NewOrchestrator(selector *imaging.Selector, store storage.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		selector: selector,
		store:    store,
		logger:   logger,
	}
}

// UploadBatch validates, compresses and stores files, returning one URL per
// input in input order. It fails fast before any storage call when the
// batch would exceed maxImages or any file is invalid; a batch with one
// invalid member uploads nothing.
//
// Compression runs sequentially so progress can report a running
// bytes-saved aggregate. A file whose compression fails is uploaded as-is:
// compression trouble never blocks submission.
func (o *Orchestrator) UploadBatch(ctx context.Context, files []imaging.SourceImage, currentCount, maxImages int, progress ProgressFunc) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	if currentCount+len(files) > maxImages {
		return nil, &domain.QuotaError{
			Message: fmt.Sprintf("adding %d images would exceed the limit of %d (already have %d)",
				len(files), maxImages, currentCount),
		}
	}

	for i, f := range files {
		if err := validateFile(i, f); err != nil {
			return nil, err
		}
	}

	objs := make([]storage.Object, 0, len(files))
	var savedBytes int64
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("upload aborted: %w", err)
		}

		res := o.selector.Compress(ctx, f, imaging.SmartConfig)
		if !res.Success {
			o.logger.Warn("compression failed, uploading original",
				"file", f.Name,
				"position", i,
				"error", res.Error,
			)
		}
		savedBytes += res.OriginalSize - res.CompressedSize

		objs = append(objs, storage.Object{
			Data:        res.File,
			Name:        objectName(f.Name),
			ContentType: res.FileType,
		})

		if progress != nil {
			progress(i+1, len(files), savedBytes)
		}
	}

	urls, err := o.store.PutBatch(ctx, objs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	if len(urls) != len(files) {
		// Defect in the storage backend; treat as total failure rather
		// than returning a partial list.
		return nil, fmt.Errorf("%w: expected %d urls, got %d", domain.ErrUploadFailed, len(files), len(urls))
	}

	o.logger.Info("image batch uploaded",
		"files", len(files),
		"bytes_saved", savedBytes,
	)
	return urls, nil
}

// UploadOne validates, compresses and stores a single image with the given
// compression config. Used for avatars and other non-batch uploads.
func (o *Orchestrator) UploadOne(ctx context.Context, f imaging.SourceImage, cfg imaging.Config) (string, error) {
	if err := validateFile(0, f); err != nil {
		return "", err
	}

	res := o.selector.Compress(ctx, f, cfg)
	if !res.Success {
		o.logger.Warn("compression failed, uploading original",
			"file", f.Name,
			"error", res.Error,
		)
	}

	url, err := o.store.Put(ctx, storage.Object{
		Data:        res.File,
		Name:        objectName(f.Name),
		ContentType: res.FileType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	return url, nil
}

// validateFile enforces per-file limits, identifying the file by position
// so the client can point at the offending selection.
func validateFile(position int, f imaging.SourceImage) error {
	if int64(len(f.Data)) > config.MaxUploadFileBytes {
		return &domain.ValidationError{
			Message: fmt.Sprintf("file %d (%s) is %.1fMB, the limit is %dMB",
				position+1, f.Name, float64(len(f.Data))/(1<<20), config.MaxUploadFileBytes>>20),
		}
	}
	if !allowedMimeTypes[strings.ToLower(f.MimeType)] {
		return &domain.ValidationError{
			Message: fmt.Sprintf("file %d (%s) has unsupported type %q; allowed: jpeg, png, webp, gif",
				position+1, f.Name, f.MimeType),
		}
	}
	return nil
}

// objectName builds a collision-free storage name preserving the original
// extension.
func objectName(original string) string {
	ext := strings.ToLower(path.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	return uuid.NewString() + ext
}
