//go:build !linux

package terminal

import (
	"golang.org/x/term"
)

// suppressInput puts the terminal in raw mode for the duration of the block
func suppressInput(fd int) (func() error, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	return func() error {
		return term.Restore(fd, state)
	}, nil
}
