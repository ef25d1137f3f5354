package routes

import (
	"encoding/json"
	"net/http"

	"blogapi/app/controllers"
	"blogapi/app/middleware"
	"blogapi/app/repositories"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// LiveMessage is the body of the liveness check at GET /.
const LiveMessage = "Blog API live!"

// SetupRoutes wires the store into services and controllers and returns the
// application router.
func SetupRoutes(store repositories.Store, log *zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID(log))
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	// mux skips the middleware chain for unmatched requests
	router.NotFoundHandler = chain(log, http.HandlerFunc(notFound))
	router.MethodNotAllowedHandler = chain(log, http.HandlerFunc(methodNotAllowed))

	postService := services.NewPostService(store.Posts())
	commentService := services.NewCommentService(store.Comments(), store.Posts())

	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)

	router.HandleFunc("/", live).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/", postController.Index).Methods("GET")
	posts.HandleFunc("/", postController.Create).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}", postController.Delete).Methods("DELETE")
	posts.HandleFunc("/{id:[0-9]+}", postController.Edit).Methods("PUT")

	// Comments API endpoints
	posts.HandleFunc("/{id:[0-9]+}/comments", commentController.Index).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id:[0-9]+}", commentController.Show).Methods("GET")

	return router
}

func chain(log *zerolog.Logger, h http.Handler) http.Handler {
	return middleware.RequestID(log)(middleware.Logger(middleware.ContentTypeJSON(h)))
}

func live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(LiveMessage))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, "Not found", http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
