package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/models"
)

type MockTodoRepository struct {
	todos     map[int64]*models.Todo
	nextID    int64
	listErr   error
	createErr error
	deleteErr error
	calls     int
	mutex     sync.Mutex
}

func NewMockTodoRepository() *MockTodoRepository {
	return &MockTodoRepository{todos: make(map[int64]*models.Todo)}
}

func (m *MockTodoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.calls++

	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Todo, 0, len(m.todos))
	for _, todo := range m.todos {
		out = append(out, todo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockTodoRepository) Create(ctx context.Context, task string) (*models.Todo, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.calls++

	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	todo := &models.Todo{ID: m.nextID, Task: task, CreatedAt: time.Now().UTC()}
	m.todos[todo.ID] = todo
	return todo, nil
}

func (m *MockTodoRepository) Delete(ctx context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.calls++

	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, exists := m.todos[id]; !exists {
		return db.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}

func SetupMockTodos(tasks ...string) *MockTodoRepository {
	repo := NewMockTodoRepository()
	for _, task := range tasks {
		repo.Create(context.Background(), task)
	}
	repo.calls = 0
	return repo
}
