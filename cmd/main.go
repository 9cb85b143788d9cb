package main

import (
	"errors"
	"fmt"
	"os"

	"musescore/internal/scoring"
	"musescore/internal/watchlist"
)

// Exit codes for different failure modes
const (
	ExitSuccess  = 0 // Command completed
	ExitNotFound = 1 // Unknown ZIP or rejected input
	ExitError    = 2 // Configuration, dataset or runtime error
)

const (
	colorRed    = "\033[31m"
	colorOrange = "\033[33m"
	colorYellow = "\033[93m"
	colorGreen  = "\033[32m"
	colorReset  = "\033[0m"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, scoring.ErrNotFound),
		errors.Is(err, scoring.ErrInvalidInput),
		errors.Is(err, watchlist.ErrInvalidZip):
		return ExitNotFound
	}
	return ExitError
}
