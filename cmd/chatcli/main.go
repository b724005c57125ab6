package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/saeid-a/ChatAppBack/internal/chatstate"
	"github.com/saeid-a/ChatAppBack/internal/client"
	"github.com/saeid-a/ChatAppBack/internal/tui"
)

func main() {
	_ = godotenv.Load()

	defaultServer := os.Getenv("CHAT_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}
	server := flag.String("server", defaultServer, "chat backend base URL")
	logFile := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "chatcli")
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	api, err := client.New(*server)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	model := tui.New(api, tui.Options{
		Env:        chatstate.DefaultEnv(),
		DraftDelay: chatstate.DefaultDraftDelay,
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "chatcli:", err)
		os.Exit(1)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return
	}
	m.Close()
	if m.LoggedIn() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := api.Logout(ctx); err != nil {
			log.Printf("logout: %v", err)
		}
	}
}
