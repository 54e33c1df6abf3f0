package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/1123antman/battle-super-z/internal/game"
	duelmcp "github.com/1123antman/battle-super-z/internal/mcp"
	"github.com/1123antman/battle-super-z/internal/room"
)

func main() {
	decks := flag.String("decks", "", "YAML decks file with extra presets and custom cards")
	flag.Parse()

	lib := game.DefaultLibrary()
	if *decks != "" {
		var err error
		if lib, err = game.LoadDeckFile(*decks); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// stdout carries the MCP protocol; production zap logs go to stderr.
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store := room.NewStore(room.Options{Logger: logger, Library: lib})

	s := server.NewMCPServer("battle-super-z", "1.0.0")
	duelmcp.RegisterTools(s, store)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
