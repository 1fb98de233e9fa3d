package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/21e8/miner/internal/config"
	"github.com/21e8/miner/internal/dashboard"
	"github.com/21e8/miner/internal/explorer"
	"github.com/21e8/miner/internal/mining"
	"github.com/21e8/miner/internal/puzzle"
)

func main() {
	log.Println("21e8 puzzle miner starting up")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println()
		fmt.Println("1) Start mining")
		fmt.Println("2) Setup")
		fmt.Println("3) Quit")
		fmt.Print("> ")

		if !reader.Scan() {
			return
		}
		switch strings.TrimSpace(reader.Text()) {
		case "1":
			runStart(ctx, reader)
			if ctx.Err() != nil {
				return
			}
		case "2":
			if _, err := config.RunSetup(os.Stdin, os.Stdout); err != nil {
				log.Printf("setup failed: %v", err)
			}
		case "3", "q", "quit":
			return
		default:
			fmt.Println("unrecognized choice")
		}
	}
}

func runStart(ctx context.Context, reader *bufio.Scanner) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("invalid config, running setup: %v", err)
		cfg, err = config.RunSetup(os.Stdin, os.Stdout)
		if err != nil {
			log.Printf("setup failed: %v", err)
			return
		}
	}

	fmt.Print("Target TXID: ")
	if !reader.Scan() {
		return
	}
	txid := strings.TrimSpace(reader.Text())
	if !puzzle.ValidTXID(txid) {
		fmt.Println("Invalid txid")
		return
	}

	explorerBaseURL := cfg.Explorer.BaseURL
	opts := puzzle.Options{
		Explorer:     explorer.New(explorerBaseURL),
		PromptReader: os.Stdin,
		PromptWriter: os.Stdout,
	}

	var dash *dashboard.Server
	if cfg.Dashboard.Enabled {
		dash = dashboard.New(cfg.Dashboard.ListenAddr)
		dash.Start(ctx)
		progress := make(chan mining.Attempt, 16)
		go dash.PipeProgress(progress)
		opts.Progress = progress
		opts.Dash = dash
		log.Printf("dashboard listening on http://%s", cfg.Dashboard.ListenAddr)
	}

	log.Printf("mining %s with %d threads", txid, mining.Threads())

	result, err := puzzle.Run(ctx, txid, cfg, opts)
	if err != nil {
		if errors.Is(err, puzzle.ErrNoPuzzleFound) {
			fmt.Println("No 21e8 scripts found.")
			return
		}
		log.Printf("mining run failed: %v", err)
		return
	}

	fmt.Printf("\n[%s] Solved with key %s\n", result.RunID, result.WinningKeyWIF)
	if result.Broadcast != "" {
		fmt.Printf("broadcast response: %s\n", result.Broadcast)
	}
	if result.SavedPath != "" {
		fmt.Printf("saved to %s\n", result.SavedPath)
	}
}
