package terminal

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// InputBlocker suppresses keyboard echo and discards typed input while output is
// being printed. Block and Unblock nest; only the outermost pair touches the terminal.
type InputBlocker struct {
	fd      int
	enabled bool

	mu      sync.Mutex
	depth   int
	restore func() error

	Logger *zap.Logger
}

// NewInputBlocker creates a blocker for f. It is inert when f is not a terminal.
func NewInputBlocker(f *os.File, logger *zap.Logger) *InputBlocker {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &InputBlocker{Logger: logger}
	if f != nil && term.IsTerminal(int(f.Fd())) {
		b.fd = int(f.Fd())
		b.enabled = true
	}
	return b
}

// Enabled reports whether the blocker controls a real terminal
func (b *InputBlocker) Enabled() bool {
	return b != nil && b.enabled
}

// Block starts suppressing input
func (b *InputBlocker) Block() error {
	if !b.Enabled() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.depth++
	if b.depth > 1 {
		return nil
	}

	restore, err := suppressInput(b.fd)
	if err != nil {
		b.depth--
		b.Logger.Warn("Failed to suppress input", zap.Error(err))
		return err
	}
	b.restore = restore

	return nil
}

// Unblock restores the terminal once every Block has been matched
func (b *InputBlocker) Unblock() error {
	if !b.Enabled() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depth == 0 {
		return nil
	}
	b.depth--
	if b.depth > 0 || b.restore == nil {
		return nil
	}

	restore := b.restore
	b.restore = nil
	if err := restore(); err != nil {
		b.Logger.Warn("Failed to restore terminal", zap.Error(err))
		return err
	}

	return nil
}

// Do runs fn with input blocked. The terminal is restored on every exit path,
// including a panic in fn.
func (b *InputBlocker) Do(fn func() error) (err error) {
	if blockErr := b.Block(); blockErr != nil {
		// Output still goes ahead, just without suppression
		return fn()
	}
	defer func() {
		if unblockErr := b.Unblock(); err == nil {
			err = unblockErr
		}
	}()

	return fn()
}
