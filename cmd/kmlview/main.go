package main

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kmlview/internal/tui"
)

func main() {
	// The alt screen owns the terminal, so the standard logger either goes
	// to a file (KMLVIEW_DEBUG set) or nowhere.
	if os.Getenv("KMLVIEW_DEBUG") != "" {
		f, err := tea.LogToFile("kmlview.log", "debug")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var m tea.Model
	if len(os.Args) > 1 {
		m = tui.NewWithPath(os.Args[1])
	} else {
		m = tui.New()
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		log.Fatal(err)
	}
}
