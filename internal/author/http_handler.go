package author

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/paging"
	"libraryapi/internal/rescache"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	cache   *rescache.Cache
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, cache *rescache.Cache, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, cache: cache, log: logger}
}

// List handles GET /api/authors
// @Summary List authors
// @Tags authors
// @Produce json
// @Param offset query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 5)"
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/authors [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params := paging.FromQuery(r.URL.Query())
	key := rescache.Key(Group, params.Offset, params.Limit)

	payload, err := h.cache.Get(r.Context(), key, []string{rescache.TagAuthors}, func(ctx context.Context) ([]byte, error) {
		authors, total, err := h.service.List(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list authors: %w", err)
		}
		return httpx.MarshalSuccess(NewViews(authors), paging.NewMeta(params, total))
	})
	if err != nil {
		httpx.InternalError(w, r, h.log, err)
		return
	}
	httpx.JSONRaw(w, http.StatusOK, payload)
}

// Get handles GET /api/authors/{id}
// @Summary Get an author
// @Tags authors
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/authors/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, NewView(a), nil)
}

// Create handles POST /api/authors
// @Summary Create an author
// @Tags authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /api/authors [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.BadRequest(w, r)
		return
	}

	a := in.Author()
	if details := httpx.ValidateStruct(a); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	if err := h.service.Create(r.Context(), &a); err != nil {
		httpx.InternalError(w, r, h.log, err)
		return
	}
	h.invalidate(r)
	h.log.Info("author created", zap.Int64("author_id", a.ID), zap.String("user_id", httpx.UserIDFrom(r)))

	httpx.JSONCreated(w, fmt.Sprintf("/api/authors/%d", a.ID), NewView(a))
}

// Update handles PATCH /api/authors/{id}
// @Summary Update an author
// @Tags authors
// @Accept json
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/authors/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.BadRequest(w, r)
		return
	}
	patch.Apply(&a)

	if details := httpx.ValidateStruct(a); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	if err := h.service.Update(r.Context(), &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Author not found")
			return
		}
		httpx.InternalError(w, r, h.log, err)
		return
	}
	h.invalidate(r)

	httpx.JSONNoContent(w)
}

// Delete handles DELETE /api/authors/{id}
// @Summary Delete an author
// @Tags authors
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/authors/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Author not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Author not found")
			return
		}
		httpx.InternalError(w, r, h.log, err)
		return
	}
	h.invalidate(r)

	httpx.JSONNoContent(w)
}

func (h *HTTPHandler) load(w http.ResponseWriter, r *http.Request) (Author, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Author not found")
		return Author{}, false
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Author not found")
			return Author{}, false
		}
		httpx.InternalError(w, r, h.log, err)
		return Author{}, false
	}
	return a, true
}

// invalidate drops cached pages after a successful write. Failures are
// logged; the pages still expire by TTL.
func (h *HTTPHandler) invalidate(r *http.Request) {
	if err := h.cache.InvalidateTags(r.Context(), rescache.ResourceTags...); err != nil {
		h.log.Warn("cache invalidation failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Error(err),
		)
	}
}
