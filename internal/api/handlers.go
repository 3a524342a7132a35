// catalog-service/internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"catalog-service/internal/domain"
	"catalog-service/internal/service"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// ContentService is the part of service.ContentService the handlers call.
type ContentService interface {
	Create(ctx context.Context, in domain.CreateContentRequest) (domain.ContentResponse, error)
	GetByID(ctx context.Context, id int64) (domain.ContentResponse, error)
	GetByTitle(ctx context.Context, title string) (domain.ContentResponse, error)
	List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.ContentResponse], error)
	Update(ctx context.Context, id int64, in domain.CreateContentRequest) (domain.ContentResponse, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (domain.Page[domain.ContentResponse], error)
}

// PageDefaults configures how page and size query parameters are read.
type PageDefaults struct {
	Size    int
	MaxSize int
}

// ContentHandler holds the dependencies of the HTTP handlers.
type ContentHandler struct {
	service   ContentService
	logger    *slog.Logger
	validator *domain.Validator
	paging    PageDefaults
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(s ContentService, l *slog.Logger, v *domain.Validator, paging PageDefaults) *ContentHandler {
	if paging.Size <= 0 {
		paging.Size = 20
	}
	if paging.MaxSize < paging.Size {
		paging.MaxSize = paging.Size
	}
	return &ContentHandler{
		service:   s,
		logger:    l,
		validator: v,
		paging:    paging,
	}
}

type errorResponse struct {
	Error      string                  `json:"error"`
	Violations []domain.FieldViolation `json:"violations,omitempty"`
}

func (h *ContentHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *ContentHandler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, errorResponse{Error: message})
}

// respondServiceError maps service and validation errors onto HTTP statuses.
func (h *ContentHandler) respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.logger.InfoContext(ctx, "Request validation failed", slog.String("op", op), slog.Any("fields", vErr.Fields()))
		h.respondJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Validation failed", Violations: vErr.Violations})
	case errors.Is(err, service.ErrContentNotFound):
		h.respondError(w, r, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Content operation failed", slog.String("op", op), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody reads a JSON body into dst. An empty body is accepted only when
// allowEmpty is set.
func (h *ContentHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, allowEmpty bool) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func (h *ContentHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid content id")
		return 0, false
	}
	return id, true
}

// pageRequest reads zero-based page and size. Malformed or negative values
// fall back to the defaults; size is capped at MaxSize. A page whose offset
// would overflow int counts as malformed.
func (h *ContentHandler) pageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = h.paging.Size
	} else if size > h.paging.MaxSize {
		size = h.paging.MaxSize
	}
	if page > math.MaxInt/size {
		page = 0
	}
	return domain.PageRequest{Number: page, Size: size}
}

// CreateContent handles POST /api/content.
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateContent request received", slog.String("path", r.URL.Path))

	var req domain.CreateContentRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}
	if err := h.validator.ValidateCreate(ctx, req); err != nil {
		h.respondServiceError(w, r, "create", err)
		return
	}

	created, err := h.service.Create(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, "create", err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, created)
}

// ListContent handles GET /api/content.
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := h.pageRequest(r)
	h.logger.InfoContext(ctx, "ListContent endpoint hit", slog.Int("page", page.Number), slog.Int("size", page.Size))

	out, err := h.service.List(ctx, page)
	if err != nil {
		h.respondServiceError(w, r, "list", err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, out)
}

// GetContentByID handles GET /api/content/{id}.
func (h *ContentHandler) GetContentByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.logger.InfoContext(r.Context(), "GetContentByID endpoint hit", slog.Int64("contentID", id))

	content, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, "get", err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, content)
}

// GetContentByTitle handles GET /api/content/by-title?title=.
func (h *ContentHandler) GetContentByTitle(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		h.respondError(w, r, http.StatusBadRequest, "Query parameter title is required")
		return
	}

	content, err := h.service.GetByTitle(r.Context(), title)
	if err != nil {
		h.respondServiceError(w, r, "get_by_title", err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, content)
}

// UpdateContent handles PUT /api/content/{id}.
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.logger.InfoContext(ctx, "UpdateContent endpoint hit", slog.Int64("contentID", id))

	var req domain.CreateContentRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}
	if err := h.validator.ValidateCreate(ctx, req); err != nil {
		h.respondServiceError(w, r, "update", err)
		return
	}

	updated, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.respondServiceError(w, r, "update", err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

// DeleteContent handles DELETE /api/content/{id}.
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.logger.InfoContext(r.Context(), "DeleteContent endpoint hit", slog.Int64("contentID", id))

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchContent handles POST /api/content/search. Every filter field is optional.
func (h *ContentHandler) SearchContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var filter domain.SearchFilter
	if !h.decodeBody(w, r, &filter, true) {
		return
	}
	if err := h.validator.ValidateSearch(ctx, filter); err != nil {
		h.respondServiceError(w, r, "search", err)
		return
	}
	page := h.pageRequest(r)
	h.logger.InfoContext(ctx, "SearchContent endpoint hit", slog.Any("filter", filter), slog.Int("page", page.Number), slog.Int("size", page.Size))

	out, err := h.service.Search(ctx, filter, page)
	if err != nil {
		h.respondServiceError(w, r, "search", err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, out)
}
