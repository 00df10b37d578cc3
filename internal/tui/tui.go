package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chepyr/go-todo-list/internal/models"
)

// TodoAPI is the subset of the todo service the terminal view needs.
type TodoAPI interface {
	List(ctx context.Context) ([]*models.Todo, error)
	Create(ctx context.Context, task string) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

type todosLoadedMsg struct{ todos []*models.Todo }

type mutationDoneMsg struct{ status string }

type errMsg struct{ err error }

type Model struct {
	api     TodoAPI
	timeout time.Duration
	keys    keyMap

	todos  []*models.Todo
	cursor int

	adding bool
	input  textinput.Model

	status string
	err    error
}

func New(api TodoAPI) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task..."
	ti.CharLimit = 500

	return Model{
		api:     api,
		timeout: 10 * time.Second,
		keys:    defaultKeyMap(),
		input:   ti,
	}
}

func (m Model) Init() tea.Cmd { return m.fetchTodos() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		m.todos = msg.todos
		if m.cursor >= len(m.todos) {
			m.cursor = max(len(m.todos)-1, 0)
		}
		return m, nil
	case mutationDoneMsg:
		m.status = msg.status
		m.err = nil
		return m, m.fetchTodos()
	case errMsg:
		m.err = msg.err
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		task := strings.TrimSpace(m.input.Value())
		if task == "" {
			m.err = errors.New("task cannot be empty")
			return m, nil
		}
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		return m, m.createTodo(task)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.err = nil
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		if len(m.todos) == 0 {
			return m, nil
		}
		return m, m.deleteTodo(m.todos[m.cursor].ID)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchTodos()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todo list"))
	b.WriteString("  ")
	b.WriteString(countStyle.Render(fmt.Sprintf("%d tasks", len(m.todos))))
	b.WriteString("\n\n")

	if len(m.todos) == 0 {
		b.WriteString(mutedStyle.Render("  nothing to do"))
		b.WriteString("\n")
	}
	for i, todo := range m.todos {
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		created := mutedStyle.Render(todo.CreatedAt.Local().Format("Jan 2 15:04"))
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, todo.Task, created)
	}

	if m.adding {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + successStyle.Render("✔ "+m.status) + "\n")
	}

	b.WriteString("\n")
	if m.adding {
		b.WriteString(helpLine(m.keys.Submit, m.keys.Cancel))
	} else {
		b.WriteString(helpLine(m.keys.Up, m.keys.Down, m.keys.Add, m.keys.Delete, m.keys.Refresh, m.keys.Quit))
	}
	return frameStyle.Render(b.String())
}

func (m Model) fetchTodos() tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		todos, err := api.List(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return todosLoadedMsg{todos: todos}
	}
}

func (m Model) createTodo(task string) tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := api.Create(ctx, task); err != nil {
			return errMsg{err: err}
		}
		return mutationDoneMsg{status: "added " + task}
	}
}

func (m Model) deleteTodo(id int64) tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := api.Delete(ctx, id); err != nil {
			return errMsg{err: err}
		}
		return mutationDoneMsg{status: fmt.Sprintf("deleted #%d", id)}
	}
}
