package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vibin/crop-advisor/internal/core/domain"
	"github.com/vibin/crop-advisor/internal/core/services"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	imageField = "image"
)

type plantCheckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CheckPlant handles POST /check-plant with a multipart "image" field
func (h *Handler) CheckPlant(w http.ResponseWriter, r *http.Request) {
	if limit := h.config.Server.MaxUploadBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	file, header, err := r.FormFile(imageField)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = services.ErrMissingImage
		} else {
			err = fmt.Errorf("read image upload: %w", err)
		}
		h.respondWithFailure(w, r, domain.InputError(err))
		return
	}
	defer file.Close()

	reply, err := h.service.CheckPlant(r.Context(), header.Filename, file)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, plantCheckResponse{
		Status:  statusSuccess,
		Message: reply,
	})
}

// Chat handles POST /chat with a JSON {"message": "..."} body
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithFailure(w, r, domain.InputError(fmt.Errorf("invalid request payload: %w", err)))
		return
	}

	reply, err := h.service.Chat(r.Context(), req.Message)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, chatResponse{
		Status: statusSuccess,
		Reply:  reply,
	})
}

// respondWithFailure logs the failure and sends {"status":"error","message":...}
func (h *Handler) respondWithFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	h.requestLogger(r).Error("Request failed",
		"path", r.URL.Path,
		"kind", kind.String(),
		"error", err,
	)

	h.respondWithJSON(w, statusFor(kind), errorResponse{
		Status:  statusError,
		Message: err.Error(),
	})
}

// statusFor maps a failure kind to its HTTP status.
// Input and upstream failures are both reported as 500.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInput:
		return http.StatusInternalServerError
	case domain.KindUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
