package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/1123antman/battle-super-z/internal/game"
	gamenet "github.com/1123antman/battle-super-z/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case gamenet.ModeCreate, gamenet.ModeJoin, gamenet.ModeSolo:
		run(cmd, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  duel-cli create [--name NAME] [--deck PRESET] [--addr URL]")
	fmt.Println("  duel-cli join   --room CODE [--name NAME] [--deck PRESET] [--addr URL]")
	fmt.Println("  duel-cli solo   [--ai PRESET] [--name NAME] [--deck PRESET] [--addr URL]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  create  Open a room and wait for friends")
	fmt.Println("  join    Join a room by its 4-digit code")
	fmt.Println("  solo    Play against the CPU")
}

func run(mode string, args []string) {
	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	addr := fs.String("addr", "ws://localhost:3000/ws", "server WebSocket URL")
	name := fs.String("name", "", "display name")
	deck := fs.String("deck", game.DefaultAIPreset, "your deck preset")
	decksFile := fs.String("decks", "", "YAML decks file with extra presets")
	roomID := fs.String("room", "", "room code to join")
	ai := fs.String("ai", game.DefaultAIPreset, "CPU deck preset (solo)")
	fs.Parse(args)

	if mode == gamenet.ModeJoin && *roomID == "" {
		fmt.Fprintln(os.Stderr, "Error: --room is required")
		os.Exit(1)
	}

	lib := game.DefaultLibrary()
	if *decksFile != "" {
		var err error
		if lib, err = game.LoadDeckFile(*decksFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	cards, err := lib.Deck(*deck)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = gamenet.Connect(ctx, *addr, gamenet.ClientOptions{
		Mode:   mode,
		RoomID: *roomID,
		Name:   *name,
		Preset: *ai,
		Deck:   cards,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
