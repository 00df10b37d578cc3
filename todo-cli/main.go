package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chepyr/go-todo-list/internal/client"
	"github.com/chepyr/go-todo-list/internal/tui"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the todo service")
	flag.Parse()

	api := client.New(*addr, &http.Client{Timeout: 10 * time.Second})
	if _, err := tea.NewProgram(tui.New(api), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "todo-cli:", err)
		os.Exit(1)
	}
}
