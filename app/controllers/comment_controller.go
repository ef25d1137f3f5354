package controllers

import (
	"errors"
	"net/http"

	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// Index handles listing all comments for a post
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		sendError(w, msgPostNotFound, http.StatusNotFound)
		return
	}

	comments, err := cc.commentService.ListPostComments(r.Context(), postID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, msgPostNotFound, http.StatusNotFound)
	case errors.Is(err, services.ErrLookupFailed):
		sendServerError(w, r, err, msgPostGet)
	case err != nil:
		sendServerError(w, r, err, msgCommentsList)
	default:
		sendJSON(w, http.StatusOK, comments)
	}
}

// Create handles creating a new comment on the post named in the path
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		sendError(w, msgPostNotFound, http.StatusNotFound)
		return
	}

	var comment models.Comment
	if err := decodeJSON(r, &comment); err != nil {
		sendError(w, msgCommentFields, http.StatusBadRequest)
		return
	}
	comment.PostID = postID

	err = cc.commentService.CreateComment(r.Context(), &comment)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		sendError(w, msgCommentFields, http.StatusBadRequest)
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, msgPostNotFound, http.StatusNotFound)
	case errors.Is(err, services.ErrLookupFailed):
		sendServerError(w, r, err, msgPostGet)
	case err != nil:
		sendServerError(w, r, err, msgCommentCreate)
	default:
		sendJSON(w, http.StatusCreated, comment)
	}
}

// Show handles displaying a single comment
func (cc *CommentController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, msgCommentNotFound, http.StatusNotFound)
		return
	}

	comment, err := cc.commentService.GetComment(r.Context(), id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, msgCommentNotFound, http.StatusNotFound)
	case err != nil:
		sendServerError(w, r, err, msgCommentGet)
	default:
		sendJSON(w, http.StatusOK, comment)
	}
}
