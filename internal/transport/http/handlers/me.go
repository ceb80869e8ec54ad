package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/pribylovaa/go-identity-service/internal/service"
	apierrors "github.com/pribylovaa/go-identity-service/internal/transport/http/errors"
	"github.com/pribylovaa/go-identity-service/internal/transport/http/middleware"
)

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	profile, err := h.svc.Profile(r.Context(), subject)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// PutPhoto принимает сырое тело с Content-Type изображения.
// Читаем на байт больше предела, чтобы сервис увидел превышение.
func (h *Handlers) PutPhoto(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	if r.ContentLength > h.maxPhotoBytes {
		apierrors.WriteError(w, r, service.ErrInvalidPhoto)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, h.maxPhotoBytes+1))
	if err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	url, err := h.svc.UploadPhoto(r.Context(), subject, r.Header.Get("Content-Type"), data)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PhotoResponse{PhotoURL: url})
}

func (h *Handlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
		return
	}

	data, contentType, err := h.svc.Photo(r.Context(), subject)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
