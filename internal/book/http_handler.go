package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/paging"
	"libraryapi/internal/rescache"
	"libraryapi/internal/versioning"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service  *Service
	cache    *rescache.Cache
	versions *versioning.Resolver
	log      *zap.Logger
}

func NewHTTPHandler(service *Service, cache *rescache.Cache, versions *versioning.Resolver, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, cache: cache, versions: versions, log: logger}
}

// List handles GET /api/books
// @Summary List books
// @Tags books
// @Produce json
// @Param offset query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 5)"
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params := paging.FromQuery(r.URL.Query())
	key := rescache.Key(Group, params.Offset, params.Limit)

	payload, err := h.cache.Get(r.Context(), key, []string{rescache.TagBooks}, func(ctx context.Context) ([]byte, error) {
		books, total, err := h.service.List(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		// List pages are unversioned and carry every field.
		return httpx.MarshalSuccess(NewViews(books, ""), paging.NewMeta(params, total))
	})
	if err != nil {
		httpx.InternalError(w, r, h.log, err)
		return
	}
	httpx.JSONRaw(w, http.StatusOK, payload)
}

// Get handles GET /api/books/{id}
// @Summary Get a book
// @Description The comment field is returned from version 2.0 (Accept: application/json; version=2.0).
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, NewView(b, h.versions.FromRequest(r)), nil)
}

// Create handles POST /api/books
// @Summary Create a book
// @Description idAuthor, when it names an existing author, is attached after the book is stored.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.BadRequest(w, r)
		return
	}

	b := in.Book()
	if details := httpx.ValidateStruct(b); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	if err := h.service.Create(r.Context(), &b, in.AuthorID()); err != nil {
		// The row exists once the first write assigned an id.
		if b.ID != 0 {
			h.invalidate(r)
		}
		httpx.InternalError(w, r, h.log, err)
		return
	}
	h.invalidate(r)
	h.log.Info("book created", zap.Int64("book_id", b.ID), zap.String("user_id", httpx.UserIDFrom(r)))

	httpx.JSONCreated(w, fmt.Sprintf("/api/books/%d", b.ID), NewView(b, ""))
}

// Update handles PATCH /api/books/{id}
// @Summary Update a book
// @Tags books
// @Accept json
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.BadRequest(w, r)
		return
	}
	patch.Apply(&b)

	details := httpx.ValidateStruct(b)
	if patch.IDAuthor != nil {
		ref, err := h.service.FindAuthor(r.Context(), *patch.IDAuthor)
		switch {
		case errors.Is(err, ErrAuthorNotFound):
			details = append(details, httpx.ErrorDetail{Field: "idAuthor", Message: "idAuthor does not reference an existing author"})
		case err != nil:
			httpx.InternalError(w, r, h.log, err)
			return
		default:
			b.Author = &ref
		}
	}
	if len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	if err := h.service.Update(r.Context(), &b); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Book not found")
			return
		}
		httpx.InternalError(w, r, h.log, err)
		return
	}
	h.invalidate(r)

	httpx.JSONNoContent(w)
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete a book
// @Tags books
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Book not found")
			return
		}
		httpx.InternalError(w, r, h.log, err)
		return
	}
	h.invalidate(r)

	httpx.JSONNoContent(w)
}

func (h *HTTPHandler) load(w http.ResponseWriter, r *http.Request) (Book, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book not found")
		return Book{}, false
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Book not found")
			return Book{}, false
		}
		httpx.InternalError(w, r, h.log, err)
		return Book{}, false
	}
	return b, true
}

func (h *HTTPHandler) invalidate(r *http.Request) {
	if err := h.cache.InvalidateTags(r.Context(), rescache.ResourceTags...); err != nil {
		h.log.Warn("cache invalidation failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Error(err),
		)
	}
}
