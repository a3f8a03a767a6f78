package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/dto"
	"blog-api/models"
	"blog-api/repositories"
	"blog-api/services"
)

func newTestEngine(store services.PostStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewPostService(store, nil)
	r := gin.New()
	r.GET("/posts", ListPostsHandler(svc))
	r.POST("/posts", CreatePostHandler(svc))
	r.GET("/posts/:id", GetPostHandler(svc))
	r.PUT("/posts/:id", UpdatePostHandler(svc))
	r.DELETE("/posts/:id", DeletePostHandler(svc))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func seed(t *testing.T, repo *repositories.MemoryPostRepository) *models.Post {
	t.Helper()
	p := &models.Post{
		Author:  models.Author{FirstName: "Ada", LastName: "Lovelace"},
		Title:   "Notes",
		Content: "Analytical engine",
	}
	require.NoError(t, repo.Insert(context.Background(), p))
	return p
}

func TestListPostsReturnsEmptyArray(t *testing.T) {
	w := do(newTestEngine(repositories.NewMemoryPostRepository()), http.MethodGet, "/posts", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListPostsShape(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	p := seed(t, repo)

	w := do(newTestEngine(repo), http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	for _, k := range []string{"id", "title", "content", "author", "created"} {
		assert.Contains(t, items[0], k)
	}
	assert.Equal(t, p.ID.Hex(), items[0]["id"])
	assert.Equal(t, "Ada Lovelace", items[0]["author"])
}

func TestCreatePost(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	r := newTestEngine(repo)

	w := do(r, http.MethodPost, "/posts", `{"author":{"firstName":"Jane","lastName":"Doe"},"title":"T","content":"C"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var got dto.PostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Jane Doe", got.Author)
	assert.Equal(t, "/posts/"+got.ID, w.Header().Get("Location"))

	id, err := primitive.ObjectIDFromHex(got.ID)
	require.NoError(t, err)
	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Author.FirstName)
	assert.Equal(t, "Doe", stored.Author.LastName)
}

func TestCreatePostBadRequests(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		contains string
	}{
		{"malformed json", `{"title":`, "invalid_request_body"},
		{"missing title", `{"author":{"firstName":"Jane","lastName":"Doe"},"content":"C"}`, "Title:required"},
		{"missing author", `{"title":"T","content":"C"}`, "FirstName:required"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repositories.NewMemoryPostRepository()
			w := do(newTestEngine(repo), http.MethodPost, "/posts", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w), tc.contains)
			n, _ := repo.Count(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestGetPost(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	p := seed(t, repo)
	r := newTestEngine(repo)

	w := do(r, http.MethodGet, "/posts/"+p.ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.PostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Notes", got.Title)

	w = do(r, http.MethodGet, "/posts/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "post_not_found", decodeError(t, w))
}

func TestUpdatePost(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	p := seed(t, repo)
	r := newTestEngine(repo)

	w := do(r, http.MethodPut, "/posts/"+p.ID.Hex(), `{"id":"`+p.ID.Hex()+`","title":"New","content":"Body"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	stored, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Title)
	assert.Equal(t, "Body", stored.Content)
	assert.Equal(t, p.Author, stored.Author)
	assert.Equal(t, p.Created, stored.Created)
}

func TestUpdatePostErrors(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	p := seed(t, repo)
	r := newTestEngine(repo)

	testCases := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"invalid id", "/posts/abc", `{"title":"x"}`, http.StatusBadRequest, "invalid_post_id"},
		{"id mismatch", "/posts/" + p.ID.Hex(), `{"id":"` + primitive.NewObjectID().Hex() + `","title":"x"}`, http.StatusBadRequest, "post_id_mismatch"},
		{"nothing to update", "/posts/" + p.ID.Hex(), `{}`, http.StatusBadRequest, "nothing_to_update"},
		{"unknown id", "/posts/" + primitive.NewObjectID().Hex(), `{"title":"x"}`, http.StatusNotFound, "post_not_found"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPut, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantError, decodeError(t, w))
		})
	}
}

func TestDeletePost(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	p := seed(t, repo)
	r := newTestEngine(repo)

	w := do(r, http.MethodDelete, "/posts/"+p.ID.Hex(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	_, err := repo.FindByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, repositories.ErrPostNotFound)

	w = do(r, http.MethodDelete, "/posts/"+p.ID.Hex(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type brokenStore struct {
	*repositories.MemoryPostRepository
}

func (brokenStore) List(ctx context.Context) ([]models.Post, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureIsInternalError(t *testing.T) {
	w := do(newTestEngine(brokenStore{repositories.NewMemoryPostRepository()}), http.MethodGet, "/posts", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decodeError(t, w))
	assert.NotContains(t, w.Body.String(), "connection refused")
}
