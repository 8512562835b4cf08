// Package terminal renders the story on an ANSI terminal and reads the player's input.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/user/cliff-radio/internal/interfaces"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// ErrInterrupt is returned by ReadLine when the player presses Ctrl+C at a prompt
var ErrInterrupt = readline.ErrInterrupt

// StaticDelay is the per-glyph delay for interference bursts
const StaticDelay = 4 * time.Millisecond

const headerWidth = 60

var (
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("6")).
			Width(headerWidth).
			Align(lipgloss.Center).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)
)

var palette = map[string]color.Attribute{
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"purple":  color.FgMagenta,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"gray":    color.FgHiBlack,
}

// Screen is the terminal presenter
type Screen struct {
	out     io.Writer
	in      *os.File
	blocker *InputBlocker
	instant bool
	noColor bool
	tty     bool

	rlOnce sync.Once
	rl     *readline.Instance
	rlErr  error

	Logger *zap.Logger
}

// Ensure Screen satisfies the interfaces.Presenter interface
var _ interfaces.Presenter = (*Screen)(nil)

// Options configures a Screen
type Options struct {
	Out     io.Writer
	In      *os.File
	Blocker *InputBlocker
	Instant bool
	NoColor bool
}

// NewScreen creates a screen. Nil Out and In default to stdout and stdin.
func NewScreen(opts Options, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}

	tty := false
	if f, ok := opts.Out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}

	return &Screen{
		out:     opts.Out,
		in:      opts.In,
		blocker: opts.Blocker,
		instant: opts.Instant,
		noColor: opts.NoColor,
		tty:     tty,
		Logger:  logger,
	}
}

// paint returns a formatter for a named color; unknown names print plain
func (s *Screen) paint(name string) func(a ...interface{}) string {
	attr, ok := palette[name]
	if !ok || s.noColor {
		return fmt.Sprint
	}
	return color.New(attr).SprintFunc()
}

// TypeOut prints text with a typewriter effect and a trailing newline.
// Input is suppressed until printing finishes or ctx is cancelled.
func (s *Screen) TypeOut(ctx context.Context, text string, delay time.Duration, colorName string) error {
	paint := s.paint(colorName)

	if s.instant || delay <= 0 {
		fmt.Fprintln(s.out, paint(text))
		return ctx.Err()
	}

	return s.blocker.Do(func() error {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		for _, r := range text {
			fmt.Fprint(s.out, paint(string(r)))

			timer.Reset(delay)
			select {
			case <-ctx.Done():
				fmt.Fprintln(s.out)
				return ctx.Err()
			case <-timer.C:
			}
		}

		fmt.Fprintln(s.out)
		return nil
	})
}

// Println prints a colored line at once
func (s *Screen) Println(text, colorName string) {
	fmt.Fprintln(s.out, s.paint(colorName)(text))
}

// Clear clears the terminal. Non-terminal output gets a blank line instead.
func (s *Screen) Clear() {
	if !s.tty {
		fmt.Fprintln(s.out)
		return
	}
	fmt.Fprint(s.out, "\033[H\033[2J")
}

// Header prints a boxed title with an optional subtitle
func (s *Screen) Header(title, subtitle string) {
	body := title
	if subtitle != "" {
		body += "\n" + subtitleStyle.Render(subtitle)
	}
	fmt.Fprintln(s.out, headerStyle.Render(body))
	fmt.Fprintln(s.out)
}

// Section prints a divider line with a title
func (s *Screen) Section(title, colorName string) {
	line := strings.Repeat("=", 10)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.paint(colorName)(fmt.Sprintf("%s %s %s", line, title, line)))
}

// Static prints a burst of interference
func (s *Screen) Static(ctx context.Context, line string) error {
	return s.TypeOut(ctx, line, StaticDelay, "gray")
}

// WaitForContinue blocks until the player presses Enter
func (s *Screen) WaitForContinue(message string) error {
	if message == "" {
		message = "Press Enter to continue..."
	}
	_, err := s.ReadLine(s.paint("gray")(message) + " ")
	return err
}

// ReadLine prompts for one line of input. Ctrl+C yields ErrInterrupt and Ctrl+D io.EOF.
func (s *Screen) ReadLine(prompt string) (string, error) {
	rl, err := s.readline()
	if err != nil {
		return "", err
	}

	rl.SetPrompt(prompt)
	line, err := rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", err
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func (s *Screen) readline() (*readline.Instance, error) {
	s.rlOnce.Do(func() {
		s.rl, s.rlErr = readline.NewEx(&readline.Config{
			Prompt:          "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			UniqueEditLine:  false,

			Stdin:  readline.NewCancelableStdin(s.in),
			Stdout: s.out,
			Stderr: s.out,
		})
		if s.rlErr != nil {
			s.rlErr = fmt.Errorf("failed to initialize readline: %w", s.rlErr)
		}
	})
	return s.rl, s.rlErr
}

// Close releases the line reader
func (s *Screen) Close() error {
	if s.rl != nil {
		return s.rl.Close()
	}
	return nil
}
