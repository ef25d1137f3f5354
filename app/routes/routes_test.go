package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*mux.Router, *bytes.Buffer) {
	store, err := repositories.OpenBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var buf bytes.Buffer
	log := zerolog.New(zerolog.SyncWriter(&buf))
	return SetupRoutes(store, &log), &buf
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createPost(t *testing.T, router http.Handler, title, contents string) int {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"title": title, "contents": contents})
	require.NoError(t, err)

	w := do(t, router, "POST", "/api/posts", string(payload))
	require.Equal(t, http.StatusCreated, w.Code)

	return createdID(t, w)
}

func createdID(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var res struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotZero(t, res.ID)
	return res.ID
}

func TestLiveness(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "GET", "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Blog API live!", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPostRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("create and fetch", func(t *testing.T) {
		id := createPost(t, router, "First", "Hello world")

		w := do(t, router, "GET", "/api/posts/"+strconv.Itoa(id), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var post models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		assert.Equal(t, id, post.ID)
		assert.Equal(t, "First", post.Title)
		assert.Equal(t, "Hello world", post.Contents)
		assert.False(t, post.CreatedAt.IsZero())
		assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	})

	t.Run("create without fields stores nothing", func(t *testing.T) {
		before := do(t, router, "GET", "/api/posts", "")
		require.Equal(t, http.StatusOK, before.Code)

		for _, payload := range []string{`{"title": "only title"}`, `{"contents": "only contents"}`, `{}`} {
			w := do(t, router, "POST", "/api/posts", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error": "Please provide title and contents for the post."}`, w.Body.String())
		}

		after := do(t, router, "GET", "/api/posts", "")
		assert.JSONEq(t, before.Body.String(), after.Body.String())
	})

	t.Run("list", func(t *testing.T) {
		createPost(t, router, "Second", "More words")

		w := do(t, router, "GET", "/api/posts", "")
		require.Equal(t, http.StatusOK, w.Code)

		var posts []models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		require.Len(t, posts, 2)
		assert.Equal(t, "First", posts[0].Title)
		assert.Equal(t, "Second", posts[1].Title)
	})

	t.Run("trailing slash on collection", func(t *testing.T) {
		w := do(t, router, "GET", "/api/posts/", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, do(t, router, "GET", "/api/posts", "").Body.String(), w.Body.String())

		w = do(t, router, "POST", "/api/posts/", `{"title": "Slash", "contents": "trailing"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = do(t, router, "DELETE", "/api/posts/"+strconv.Itoa(createdID(t, w)), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("create rejects trailing data", func(t *testing.T) {
		before := do(t, router, "GET", "/api/posts", "")

		w := do(t, router, "POST", "/api/posts", `{"title":"a","contents":"b"} xyz`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, router, "POST", "/api/posts", `{"title":"a","contents":"b"}{"title":"c","contents":"d"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		after := do(t, router, "GET", "/api/posts", "")
		assert.JSONEq(t, before.Body.String(), after.Body.String())
	})

	t.Run("fetch missing", func(t *testing.T) {
		w := do(t, router, "GET", "/api/posts/999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "The post with the specified ID does not exist"}`, w.Body.String())
	})

	t.Run("update", func(t *testing.T) {
		id := createPost(t, router, "Draft", "Draft contents")

		w := do(t, router, "PUT", "/api/posts/"+strconv.Itoa(id), `{"title": "Final", "contents": "Final contents"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", strings.TrimSpace(w.Body.String()))

		w = do(t, router, "GET", "/api/posts/"+strconv.Itoa(id), "")
		var post models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		assert.Equal(t, "Final", post.Title)
		assert.Equal(t, "Final contents", post.Contents)
		assert.False(t, post.UpdatedAt.Before(post.CreatedAt))
	})

	t.Run("update errors", func(t *testing.T) {
		w := do(t, router, "PUT", "/api/posts/999", `{"title": "x", "contents": "y"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(t, router, "PUT", "/api/posts/1", `{"title": "x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, router, "PUT", "/api/posts/1", `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		id := createPost(t, router, "Doomed", "Soon gone")
		path := "/api/posts/" + strconv.Itoa(id)

		w := do(t, router, "DELETE", path, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message": "The post with ID `+strconv.Itoa(id)+` has been deleted."}`, w.Body.String())

		w = do(t, router, "GET", path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(t, router, "DELETE", path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCommentRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)

	first := createPost(t, router, "First", "Hello")
	second := createPost(t, router, "Second", "World")
	commentsPath := func(id int) string { return "/api/posts/" + strconv.Itoa(id) + "/comments" }

	t.Run("create", func(t *testing.T) {
		w := do(t, router, "POST", commentsPath(first), `{"text": "Nice post", "post_id": 12345}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var comment models.Comment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
		assert.NotZero(t, comment.ID)
		assert.Equal(t, "Nice post", comment.Text)
		assert.Equal(t, first, comment.PostID)
		assert.Equal(t, "First", comment.Post)

		w = do(t, router, "GET", "/api/comments/"+strconv.Itoa(comment.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("create on missing post", func(t *testing.T) {
		w := do(t, router, "POST", commentsPath(999), `{"text": "Lost"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "The post with the specified ID does not exist"}`, w.Body.String())
	})

	t.Run("create without text", func(t *testing.T) {
		w := do(t, router, "POST", commentsPath(first), `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Please provide text for the comment."}`, w.Body.String())
	})

	t.Run("list returns only matching comments", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, do(t, router, "POST", commentsPath(second), `{"text": "Other"}`).Code)
		require.Equal(t, http.StatusCreated, do(t, router, "POST", commentsPath(first), `{"text": "Again"}`).Code)

		w := do(t, router, "GET", commentsPath(first), "")
		require.Equal(t, http.StatusOK, w.Code)

		var comments []models.Comment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
		require.Len(t, comments, 2)
		assert.Equal(t, "Nice post", comments[0].Text)
		assert.Equal(t, "Again", comments[1].Text)
		for _, c := range comments {
			assert.Equal(t, first, c.PostID)
		}
	})

	t.Run("list on missing post", func(t *testing.T) {
		w := do(t, router, "GET", commentsPath(999), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deleting a post removes its comments", func(t *testing.T) {
		w := do(t, router, "GET", "/api/comments/1", "")
		require.Equal(t, http.StatusOK, w.Code)

		require.Equal(t, http.StatusOK, do(t, router, "DELETE", "/api/posts/"+strconv.Itoa(first), "").Code)

		w = do(t, router, "GET", "/api/comments/1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUnknownRoutes(t *testing.T) {
	router, buf := setupTestRouter(t)

	t.Run("not found", func(t *testing.T) {
		w := do(t, router, "GET", "/api/unknown", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error": "Not found"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("non numeric id", func(t *testing.T) {
		w := do(t, router, "GET", "/api/posts/abc", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := do(t, router, "PATCH", "/api/posts", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("requests are logged", func(t *testing.T) {
		buf.Reset()
		do(t, router, "GET", "/api/posts", "")
		assert.Contains(t, buf.String(), `"path":"/api/posts"`)
		assert.Contains(t, buf.String(), `"status":200`)
	})
}

func TestConcurrentCreates(t *testing.T) {
	router, _ := setupTestRouter(t)
	target := createPost(t, router, "Target", "Busy post")
	commentsPath := "/api/posts/" + strconv.Itoa(target) + "/comments"

	const n = 50
	postResults := make([]*httptest.ResponseRecorder, n)
	commentResults := make([]*httptest.ResponseRecorder, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			postResults[i] = do(t, router, "POST", "/api/posts", fmt.Sprintf(`{"title": "post %d", "contents": "x"}`, i))
		}()
		go func() {
			defer wg.Done()
			commentResults[i] = do(t, router, "POST", commentsPath, fmt.Sprintf(`{"text": "comment %d"}`, i))
		}()
	}
	wg.Wait()

	for name, results := range map[string][]*httptest.ResponseRecorder{"post": postResults, "comment": commentResults} {
		seen := make(map[int]bool, n)
		for _, w := range results {
			require.Equal(t, http.StatusCreated, w.Code, "%s create: %s", name, w.Body.String())
			id := createdID(t, w)
			assert.False(t, seen[id], "%s id %d handed out twice", name, id)
			seen[id] = true
		}
	}

	var comments []models.Comment
	w := do(t, router, "GET", commentsPath, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Len(t, comments, n)
}

func TestWriteErrorEscapesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, `bad "quote" and \ slash`, http.StatusTeapot)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, `bad "quote" and \ slash`, body["error"])
}
