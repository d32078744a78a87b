package main

import (
	"os"

	"github.com/Alvic-maker/Telegram-bot-update1/cmd/reporter/commands"
)

// main is the entry point for the reporter CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/reporter [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
