package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"eventide/internal/config"
	"eventide/internal/console"
	"eventide/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set up global panic handler first
	defer func() {
		if r := recover(); r != nil {
			log.Error("GLOBAL PANIC recovered", "error", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "eventide crashed: %v\n", r)
			os.Exit(1)
		}
	}()

	fs := flag.NewFlagSet("eventide", flag.ExitOnError)
	showVersion := fs.Bool("version", false, "print version and exit")
	cfg, err := config.ParseConfig(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *showVersion {
		fmt.Printf("eventide %s (%s, %s)\n", version, commit, date)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := console.Run(ctx, cfg, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !res.Finished {
		fmt.Fprintf(os.Stderr, "stopped after %d ticks with events still queued\n", res.Ticks)
		os.Exit(2)
	}
}
