package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/user/cliff-radio/internal/console"
)

// Exit code used after Ctrl+C, matching the shell convention for SIGINT
const exitInterrupted = 130

// Color helpers for non-interactive output
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if errors.Is(err, console.ErrInterrupted) {
		os.Exit(exitInterrupted)
	}

	fmt.Fprintln(os.Stderr, red(fmt.Sprintf("Error: %v", err)))
	os.Exit(1)
}
