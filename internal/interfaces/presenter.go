package interfaces

import (
	"context"
	"time"
)

// LineReader defines the interface for reading player input
type LineReader interface {
	// ReadLine blocks until a line is entered. It returns io.EOF or an
	// interrupt error when the player closes input.
	ReadLine(prompt string) (string, error)
}

// Presenter defines the interface for terminal output
type Presenter interface {
	LineReader

	// TypeOut prints text one character at a time and blocks until done.
	// Input typed meanwhile is discarded.
	TypeOut(ctx context.Context, text string, delay time.Duration, color string) error
	Println(text, color string)
	Clear()
	Header(title, subtitle string)
	Section(title, color string)
	Static(ctx context.Context, line string) error
	WaitForContinue(message string) error
}
