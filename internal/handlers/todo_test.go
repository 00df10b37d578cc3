package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/gorilla/mux"
)

func TestHandleTodos(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		mockRepo       *MockTodoRepository
		expectedStatus int
		expectedBody   string
		expectedAllow  string
		expectedCalls  int
	}{
		{
			name:           "List empty",
			method:         http.MethodGet,
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
			expectedCalls:  1,
		},
		{
			name:           "List newest first",
			method:         http.MethodGet,
			mockRepo:       SetupMockTodos("old", "new"),
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"id":2,"task":"new"`,
			expectedCalls:  1,
		},
		{
			name:           "List storage error",
			method:         http.MethodGet,
			mockRepo:       &MockTodoRepository{listErr: errors.New("connection refused")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"Internal Server Error"`,
			expectedCalls:  1,
		},
		{
			name:           "Create trims task",
			method:         http.MethodPost,
			body:           `{"task": "  buy milk  "}`,
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusCreated,
			expectedBody:   `"task":"buy milk"`,
			expectedCalls:  1,
		},
		{
			name:           "Create whitespace only task",
			method:         http.MethodPost,
			body:           `{"task": "   "}`,
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Task is required"`,
		},
		{
			name:           "Create missing task",
			method:         http.MethodPost,
			body:           `{}`,
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Task is required"`,
		},
		{
			name:           "Create invalid JSON",
			method:         http.MethodPost,
			body:           `{"task": }`,
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Invalid JSON body"`,
		},
		{
			name:           "Create non-string task",
			method:         http.MethodPost,
			body:           `{"task": 12}`,
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Invalid JSON body"`,
		},
		{
			name:           "Create storage error is not leaked",
			method:         http.MethodPost,
			body:           `{"task": "buy milk"}`,
			mockRepo:       &MockTodoRepository{createErr: errors.New("pq: relation todos does not exist")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error"}`,
			expectedCalls:  1,
		},
		{
			name:           "Unsupported method",
			method:         http.MethodPatch,
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusMethodNotAllowed,
			expectedBody:   `"error":"Method PATCH Not Allowed"`,
			expectedAllow:  "GET, POST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/todos", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler := &Handler{TodoRepo: tt.mockRepo}
			handler.HandleTodos(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, status)
			}
			body := strings.TrimSpace(rr.Body.String())
			if !strings.Contains(body, tt.expectedBody) {
				t.Errorf("Expected body to contain %q, got %q", tt.expectedBody, body)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", ct)
			}
			if allow := rr.Header().Get("Allow"); allow != tt.expectedAllow {
				t.Errorf("Expected Allow %q, got %q", tt.expectedAllow, allow)
			}
			if tt.mockRepo.calls != tt.expectedCalls {
				t.Errorf("Expected %d repository calls, got %d", tt.expectedCalls, tt.mockRepo.calls)
			}
		})
	}
}

func TestHandleTodos_CreateSetsLocation(t *testing.T) {
	handler := &Handler{TodoRepo: SetupMockTodos("a", "b")}
	req := httptest.NewRequest(http.MethodPost, "/todos", bytes.NewBufferString(`{"task":"c"}`))
	rr := httptest.NewRecorder()

	handler.HandleTodos(rr, req)

	if loc := rr.Header().Get("Location"); loc != "/todos/3" {
		t.Errorf("Location = %q, want /todos/3", loc)
	}
	var created models.Todo
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 3 || created.Task != "c" || created.CreatedAt.IsZero() {
		t.Errorf("unexpected todo: %+v", created)
	}
}

func TestHandleTodoByID(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		id             string
		mockRepo       *MockTodoRepository
		expectedStatus int
		expectedBody   string
		expectedAllow  string
	}{
		{
			name:           "Delete existing",
			method:         http.MethodDelete,
			id:             "1",
			mockRepo:       SetupMockTodos("buy milk"),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Todo deleted successfully"}`,
		},
		{
			name:           "Delete missing row",
			method:         http.MethodDelete,
			id:             "99",
			mockRepo:       SetupMockTodos("buy milk"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"Todo not found"`,
		},
		{
			name:           "Delete without id",
			method:         http.MethodDelete,
			id:             "",
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Todo id is required"`,
		},
		{
			name:           "Delete non-numeric id",
			method:         http.MethodDelete,
			id:             "abc",
			mockRepo:       NewMockTodoRepository(),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Invalid todo id"`,
		},
		{
			name:           "Delete storage error",
			method:         http.MethodDelete,
			id:             "1",
			mockRepo:       &MockTodoRepository{deleteErr: errors.New("disk I/O error")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error"}`,
		},
		{
			name:           "Unsupported method",
			method:         http.MethodGet,
			id:             "1",
			mockRepo:       SetupMockTodos("buy milk"),
			expectedStatus: http.StatusMethodNotAllowed,
			expectedBody:   `"error":"Method GET Not Allowed"`,
			expectedAllow:  "DELETE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/todos/"+tt.id, nil)
			if tt.id != "" {
				req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			}
			rr := httptest.NewRecorder()

			handler := &Handler{TodoRepo: tt.mockRepo}
			handler.HandleTodoByID(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, status)
			}
			body := strings.TrimSpace(rr.Body.String())
			if !strings.Contains(body, tt.expectedBody) {
				t.Errorf("Expected body to contain %q, got %q", tt.expectedBody, body)
			}
			if allow := rr.Header().Get("Allow"); allow != tt.expectedAllow {
				t.Errorf("Expected Allow %q, got %q", tt.expectedAllow, allow)
			}
		})
	}
}

func BenchmarkCreateTodo(b *testing.B) {
	handler := &Handler{TodoRepo: NewMockTodoRepository()}
	body := `{"task": "benchmark"}`

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/todos", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		handler.HandleTodos(rr, req)
		if rr.Code != http.StatusCreated {
			b.Fatalf("Unexpected status: %d", rr.Code)
		}
	}
}
