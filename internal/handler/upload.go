package handler

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"plaza/internal/config"
	"plaza/internal/httputil"
	"plaza/internal/imaging"
	"plaza/internal/upload"
)

// maxUploadBodyBytes bounds the whole multipart body: a full post batch of
// 9 files at the 5MB per-file cap, plus form overhead.
const maxUploadBodyBytes = 50 << 20

// UploadHandler handles image upload HTTP requests
type UploadHandler struct {
	orchestrator *upload.Orchestrator
	logger       *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(orchestrator *upload.Orchestrator, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

type uploadResponse struct {
	URLs       []string `json:"urls"`
	BytesSaved int64    `json:"bytes_saved"`
}

// UploadImages validates, compresses and stores a batch of images
// POST /api/uploads/images (multipart: scope, current_count, images[])
//
// scope selects the batch cap: "comment" allows 4 images, anything else is
// treated as a post and allows 9. current_count is how many images the
// draft already holds, so the cap covers the whole draft, not just this
// request.
func (h *UploadHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)

	if err := r.ParseMultipartForm(maxUploadBodyBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	maxImages := config.MaxPostImages
	if r.FormValue("scope") == "comment" {
		maxImages = config.MaxCommentImages
	}
	currentCount := formInt(r, "current_count")

	headers := r.MultipartForm.File["images"]
	files := make([]imaging.SourceImage, 0, len(headers))
	for _, header := range headers {
		file, err := readMultipartFile(header)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "unreadable file "+header.Filename)
			return
		}
		files = append(files, file)
	}

	var savedBytes int64
	urls, err := h.orchestrator.UploadBatch(r.Context(), files, currentCount, maxImages,
		func(done, total int, saved int64) {
			savedBytes = saved
		})
	if err != nil {
		handleError(w, err)
		return
	}

	if urls == nil {
		urls = []string{}
	}

	httputil.RespondJSON(w, http.StatusCreated, uploadResponse{
		URLs:       urls,
		BytesSaved: savedBytes,
	})
}

// readMultipartFile loads one part into memory for the compression pipeline
func readMultipartFile(header *multipart.FileHeader) (imaging.SourceImage, error) {
	file, err := header.Open()
	if err != nil {
		return imaging.SourceImage{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return imaging.SourceImage{}, err
	}

	return imaging.SourceImage{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func formInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.FormValue(name))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
