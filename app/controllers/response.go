package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Messages returned to clients. Persistence details never reach the body.
const (
	msgPostFields      = "Please provide title and contents for the post."
	msgCommentFields   = "Please provide text for the comment."
	msgPostNotFound    = "The post with the specified ID does not exist"
	msgPostsList       = "The posts information could not be retrieved"
	msgPostCreate      = "There was an error while saving the post to the database."
	msgPostGet         = "The post information could not be retrieved."
	msgPostDelete      = "The post could not be removed."
	msgPostUpdate      = "There was an error while updating the post in the database."
	msgCommentsList    = "The comments information could not be retrieved."
	msgCommentCreate   = "There was an error while saving the comment to the database."
	msgCommentNotFound = "The comment with the specified ID does not exist"
	msgCommentGet      = "The comment information could not be retrieved."
)

// Helper functions for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}

// sendServerError logs err against the request and answers with a generic 500.
func sendServerError(w http.ResponseWriter, r *http.Request, err error, message string) {
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(message)
	sendError(w, message, http.StatusInternalServerError)
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeJSON decodes a single JSON value and rejects anything after it.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errTrailingData
	}
	return nil
}

// pathID reads a numeric route variable. The routes constrain it to digits,
// so the only failure left is overflow.
func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}
