// Package upload stages images for one editing session and orchestrates
// validate → compress → store for the whole batch.
package upload

import (
	"fmt"

	"plaza/internal/domain"
	"plaza/internal/imaging"
)

// Batch is the bounded set of images staged in one editing session before
// submit. It is owned by exactly one session and mutated only by that
// session's handlers; it is not safe for concurrent use and does not need
// to be.
type Batch struct {
	files []imaging.SourceImage
	max   int
}

// NewBatch creates an empty batch bounded by max files.
func NewBatch(max int) *Batch {
	return &Batch{max: max}
}

// Add stages a file. Exceeding the bound fails without mutating the batch.
func (b *Batch) Add(file imaging.SourceImage) error {
	if len(b.files) >= b.max {
		return &domain.QuotaError{
			Message: fmt.Sprintf("batch is full (%d of %d images)", len(b.files), b.max),
		}
	}
	b.files = append(b.files, file)
	return nil
}

// RemoveAt drops the staged file at index, preserving order of the rest.
func (b *Batch) RemoveAt(index int) error {
	if index < 0 || index >= len(b.files) {
		return &domain.ValidationError{Message: fmt.Sprintf("no staged image at index %d", index)}
	}
	b.files = append(b.files[:index], b.files[index+1:]...)
	return nil
}

// Clear empties the batch after a successful submit or cancel. The batch
// itself stays usable.
func (b *Batch) Clear() {
	b.files = b.files[:0]
}

// Len returns the number of staged files.
func (b *Batch) Len() int { return len(b.files) }

// Max returns the batch bound.
func (b *Batch) Max() int { return b.max }

// Files returns the staged files in insertion order.
func (b *Batch) Files() []imaging.SourceImage {
	return b.files
}
