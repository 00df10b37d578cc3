package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the todo API and, when ui is non-nil, serves it at "/".
// Routes accept every method so the handlers can answer 405 with an Allow header.
func NewRouter(h *Handler, ui http.Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/todos", h.HandleTodos)
	r.HandleFunc("/todos/", h.HandleTodoByID)
	r.HandleFunc("/todos/{id}", h.HandleTodoByID)
	if ui != nil {
		r.PathPrefix("/").Handler(ui)
	}
	return logRequests(r)
}
