package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/gorilla/mux"
)

const storeTimeout = 5 * time.Second

/*
handles routes:
- GET /todos - list all todos, newest first
- POST /todos - create a new todo
*/
func (h *Handler) HandleTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTodos(w, r)
	case http.MethodPost:
		h.createTodo(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) listTodos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	todos, err := h.TodoRepo.List(ctx)
	if err != nil {
		sendInternalError(w, r, "failed to list todos", err)
		return
	}
	if todos == nil {
		todos = []*models.Todo{}
	}
	sendJSON(w, http.StatusOK, todos)
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Task string `json:"task"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	task := strings.TrimSpace(input.Task)
	if task == "" {
		sendError(w, "Task is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	todo, err := h.TodoRepo.Create(ctx, task)
	if err != nil {
		sendInternalError(w, r, "failed to create todo", err)
		return
	}
	w.Header().Set("Location", "/todos/"+strconv.FormatInt(todo.ID, 10))
	sendJSON(w, http.StatusCreated, todo)
}

/*
routes:
- DELETE /todos/{id}
*/
func (h *Handler) HandleTodoByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}

	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		sendError(w, "Todo id is required", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		sendError(w, "Invalid todo id", http.StatusBadRequest)
		return
	}
	h.deleteTodo(w, r, id)
}

func (h *Handler) deleteTodo(w http.ResponseWriter, r *http.Request, id int64) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	err := h.TodoRepo.Delete(ctx, id)
	if errors.Is(err, db.ErrTodoNotFound) {
		sendError(w, "Todo not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendInternalError(w, r, "failed to delete todo", err)
		return
	}
	sendJSON(w, http.StatusOK, messageResponse{Message: "Todo deleted successfully"})
}
