package config

const (
	// MaxPostImages is the image cap for one post's upload batch.
	MaxPostImages = 9

	// MaxCommentImages is the image cap for comments and replies. Comments
	// are lighter-weight content, so the batch is smaller.
	MaxCommentImages = 4

	// MaxUploadFileBytes is the per-file size limit enforced before
	// compression. Larger files are rejected, not shrunk.
	MaxUploadFileBytes = 5 << 20

	// MaxDisplayNameLength bounds profile display names. Limited to 64 to
	// fit typical UI layouts and the VARCHAR column.
	MaxDisplayNameLength = 64

	// MaxBioLength bounds profile bios.
	MaxBioLength = 500

	// MaxPlainTextLength bounds the extracted plain text of a post or
	// comment; longer documents are rejected at submit.
	MaxPlainTextLength = 10000

	// DefaultFeedPageSize and MaxFeedPageSize bound feed pagination.
	DefaultFeedPageSize = 20
	MaxFeedPageSize     = 100
)
