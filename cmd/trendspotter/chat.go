package main

import (
	"context"
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"trendspotter/internal/logging"
	"trendspotter/internal/session"
	"trendspotter/internal/ui"
)

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if err := logging.Init(); err != nil {
		log.Printf("logging init failed: %v", err)
	}
	defer logging.Close()

	cfg := loadConfig()
	m := buildOracle(cfg)
	embedder := buildEmbedder(cfg)
	requireOracle(m, embedder)

	st := openDB(cfg)
	defer st.Close()

	orch := buildOrchestrator(cfg, st, m, embedder)
	sess := session.NewManager().Get("")

	send := func(message string) tea.Cmd {
		return func() tea.Msg {
			reply := orch.Handle(context.Background(), sess, message)
			return ui.ReplyReceived{Content: reply}
		}
	}

	p := tea.NewProgram(ui.NewChat(send), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("chat ui: %v", err)
	}
}
