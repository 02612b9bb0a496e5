package author

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"libraryapi/internal/httpx"
	"libraryapi/internal/rescache"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testAuthor = Author{
	ID:        1,
	FirstName: "Ursula",
	LastName:  "Le Guin",
	Books:     []BookRef{{ID: 3, Title: "The Dispossessed", CoverText: "An ambiguous utopia"}},
}

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	cache, err := rescache.New(rescache.NewMemoryStore(rescache.DefaultMaxEntryBytes), rescache.Options{})
	require.NoError(t, err)
	return NewHTTPHandler(NewService(mockRepo), cache, zap.NewNop()), mockRepo
}

func doList(h *HTTPHandler, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/api/authors"+query, nil))
	return w
}

func withID(r *http.Request, id string) *http.Request {
	r.SetPathValue("id", id)
	return r
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("defaults and caching", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any(), 5, 0).Return([]Author{testAuthor}, 1, nil).Times(1)

		first := doList(handler, "")
		second := doList(handler, "")

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())

		var body struct {
			Success bool             `json:"success"`
			Data    []map[string]any `json:"data"`
			Meta    map[string]any   `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Le Guin", body.Data[0]["lastName"])
		assert.Len(t, body.Data[0]["books"], 1)
		assert.Equal(t, float64(1), body.Meta["page"])
		assert.Equal(t, float64(5), body.Meta["limit"])
	})

	t.Run("oversized limits share one cache entry", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any(), 100, 0).Return([]Author{testAuthor}, 1, nil).Times(1)

		for _, limit := range []string{"100", "101", "5100"} {
			w := doList(handler, "?limit="+limit)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"limit":100`)
		}
	})

	t.Run("pages are cached separately", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any(), 3, 3).Return([]Author{}, 4, nil).Times(1)
		mockRepo.EXPECT().List(gomock.Any(), 3, 0).Return([]Author{testAuthor}, 4, nil).Times(1)

		assert.Equal(t, http.StatusOK, doList(handler, "?offset=2&limit=3").Code)
		assert.Equal(t, http.StatusOK, doList(handler, "?offset=1&limit=3").Code)
		assert.Equal(t, http.StatusOK, doList(handler, "?offset=2&limit=3").Code)
	})

	t.Run("unparsable parameters fall back to defaults", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any(), 5, 0).Return([]Author{}, 0, nil)

		assert.Equal(t, http.StatusOK, doList(handler, "?offset=abc&limit=-4").Code)
	})

	t.Run("store error is not cached", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		gomock.InOrder(
			mockRepo.EXPECT().List(gomock.Any(), 5, 0).Return(nil, 0, context.DeadlineExceeded),
			mockRepo.EXPECT().List(gomock.Any(), 5, 0).Return([]Author{}, 0, nil),
		)

		assert.Equal(t, http.StatusInternalServerError, doList(handler, "").Code)
		assert.Equal(t, http.StatusOK, doList(handler, "").Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testAuthor, nil)

		w := httptest.NewRecorder()
		handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/api/authors/1", nil), "1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"firstName":"Ursula"`)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(Author{}, ErrNotFound)

		w := httptest.NewRecorder()
		handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/api/authors/9", nil), "9"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non integer id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Get(w, withID(httptest.NewRequest(http.MethodGet, "/api/authors/abc", nil), "abc"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("success invalidates cached pages", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any(), 5, 0).Return([]Author{}, 0, nil).Times(2)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *Author) error {
			assert.Equal(t, "Frank", a.FirstName)
			assert.Equal(t, "Herbert", a.LastName)
			a.ID = 11
			return nil
		})

		doList(handler, "")

		w := httptest.NewRecorder()
		body := strings.NewReader(`{"firstName":"Frank","lastName":"Herbert"}`)
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/authors", body))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/authors/11", w.Header().Get("Location"))
		assert.Contains(t, w.Body.String(), `"id":11`)

		doList(handler, "")
	})

	t.Run("validation error persists nothing", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		body := strings.NewReader(`{"firstName":"Nobody"}`)
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/authors", body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"lastName"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BAD_REQUEST")
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	t.Run("merges onto the existing author", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testAuthor, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *Author) error {
			assert.Equal(t, int64(1), a.ID)
			assert.Equal(t, "Ursula", a.FirstName)
			assert.Equal(t, "LeGuin", a.LastName)
			return nil
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/api/authors/1", strings.NewReader(`{"lastName":"LeGuin"}`))
		handler.Update(w, withID(r, "1"))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(Author{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/api/authors/2", strings.NewReader(`{}`))
		handler.Update(w, withID(r, "2"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("validation error persists nothing", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testAuthor, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/api/authors/1", strings.NewReader(`{"lastName":""}`))
		handler.Update(w, withID(r, "1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	t.Run("missing author keeps cache", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any(), 5, 0).Return([]Author{}, 0, nil).Times(1)
		mockRepo.EXPECT().Delete(gomock.Any(), int64(4)).Return(ErrNotFound)

		doList(handler, "")
		w := httptest.NewRecorder()
		handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/authors/4", nil), "4"))
		doList(handler, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any(), 5, 0).Return([]Author{}, 0, nil).Times(2)
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		doList(handler, "")
		w := httptest.NewRecorder()
		handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/authors/1", nil), "1"))
		doList(handler, "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHTTPHandler_CreateLogsCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	cache, err := rescache.New(rescache.NewMemoryStore(0), rescache.Options{})
	require.NoError(t, err)
	core, logs := observer.New(zap.InfoLevel)
	handler := NewHTTPHandler(NewService(mockRepo), cache, zap.New(core))

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *Author) error {
		a.ID = 4
		return nil
	})

	r := httptest.NewRequest(http.MethodPost, "/api/authors", strings.NewReader(`{"lastName":"Tolkien"}`))
	r = r.WithContext(httpx.ContextWithPrincipal(r.Context(), httpx.Principal{UserID: "2", Roles: []string{"ROLE_ADMIN"}}))
	w := httptest.NewRecorder()
	handler.Create(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	entries := logs.FilterMessage("author created").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].ContextMap()["user_id"])
	assert.Equal(t, int64(4), entries[0].ContextMap()["author_id"])
}
