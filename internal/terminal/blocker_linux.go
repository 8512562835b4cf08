//go:build linux

package terminal

import (
	"golang.org/x/sys/unix"
)

// suppressInput turns off echo and line buffering but keeps signal generation,
// so Ctrl+C still interrupts. Restoring flushes whatever was typed meanwhile.
func suppressInput(fd int) (func() error, error) {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err
	}
	saved := *termios

	termios.Lflag &^= unix.ECHO | unix.ICANON
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return nil, err
	}

	return func() error {
		if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
			return err
		}
		return unix.IoctlSetTermios(fd, unix.TCSETS, &saved)
	}, nil
}
