package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		sendServerError(w, r, err, msgPostsList)
		return
	}

	sendJSON(w, http.StatusOK, posts)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, msgPostNotFound, http.StatusNotFound)
		return
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, msgPostNotFound, http.StatusNotFound)
	case err != nil:
		sendServerError(w, r, err, msgPostGet)
	default:
		sendJSON(w, http.StatusOK, post)
	}
}

// Create handles creating a new post and answers with its id
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := decodeJSON(r, &post); err != nil {
		sendError(w, msgPostFields, http.StatusBadRequest)
		return
	}

	err := pc.postService.CreatePost(r.Context(), &post)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		sendError(w, msgPostFields, http.StatusBadRequest)
	case err != nil:
		sendServerError(w, r, err, msgPostCreate)
	default:
		sendJSON(w, http.StatusCreated, map[string]int{"id": post.ID})
	}
}

// Edit handles updating an existing post and answers with the number of
// updated records
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, msgPostNotFound, http.StatusNotFound)
		return
	}

	var post models.Post
	if err := decodeJSON(r, &post); err != nil {
		sendError(w, msgPostFields, http.StatusBadRequest)
		return
	}
	post.ID = id

	n, err := pc.postService.UpdatePost(r.Context(), &post)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		sendError(w, msgPostFields, http.StatusBadRequest)
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, msgPostNotFound, http.StatusNotFound)
	case errors.Is(err, services.ErrLookupFailed):
		sendServerError(w, r, err, msgPostGet)
	case err != nil:
		sendServerError(w, r, err, msgPostUpdate)
	default:
		sendJSON(w, http.StatusOK, n)
	}
}

// Delete handles deleting a post together with its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, msgPostNotFound, http.StatusNotFound)
		return
	}

	_, err = pc.postService.DeletePost(r.Context(), id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, msgPostNotFound, http.StatusNotFound)
	case errors.Is(err, services.ErrLookupFailed):
		sendServerError(w, r, err, msgPostGet)
	case err != nil:
		sendServerError(w, r, err, msgPostDelete)
	default:
		sendJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("The post with ID %d has been deleted.", id),
		})
	}
}
