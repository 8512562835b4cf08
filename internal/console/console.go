// Package console runs the interactive menu and story loop on top of a presenter.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/user/cliff-radio/internal/game"
	"github.com/user/cliff-radio/internal/interfaces"
	"github.com/user/cliff-radio/internal/terminal"
	"go.uber.org/zap"
)

// ErrInterrupted is returned when the player interrupts the session.
// Progress has already been saved on a best-effort basis.
var ErrInterrupted = errors.New("session interrupted")

// errQuit ends the menu loop normally
var errQuit = errors.New("quit")

// Prompts
const (
	promptCommand   = "Command > "
	promptFrequency = "Frequency (kHz) > "
	promptSlot      = "Slot (1-5) or 'quit' > "
	promptChoice    = "Choose (1-%d) or 'quit' > "
	promptContinue  = "Continue this save? (y = continue, n = start over) > "
	promptOverwrite = "Slot %d already has a save. Overwrite it? (y/n) > "
)

// Options configures the console
type Options struct {
	// Delay between typed characters
	TypeDelay time.Duration

	// Pause between scene paragraphs
	LinePause time.Duration
}

// Console drives a session through a presenter
type Console struct {
	game       interfaces.GameManager
	screen     interfaces.Presenter
	diceRoller *game.DiceRoller
	formatter  *Formatter
	options    Options

	// Set once a slot has been started or loaded
	sessionOpen bool

	Logger *zap.Logger
}

// NewConsole creates a console
func NewConsole(gm interfaces.GameManager, screen interfaces.Presenter, diceRoller *game.DiceRoller, opts Options, logger *zap.Logger) *Console {
	if diceRoller == nil {
		diceRoller = game.NewDiceRoller()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Console{
		game:       gm,
		screen:     screen,
		diceRoller: diceRoller,
		formatter:  NewFormatter(),
		options:    opts,
		Logger:     logger,
	}
}

// Run plays a full session: intro, slot selection and the main menu.
// It returns nil when the player quits and ErrInterrupted on Ctrl+C, Ctrl+D or
// cancellation of ctx.
func (c *Console) Run(ctx context.Context) error {
	err := c.run(ctx)
	switch {
	case err == nil, errors.Is(err, errQuit):
		return nil
	case isInterrupt(ctx, err):
		c.interrupted()
		return ErrInterrupted
	default:
		return err
	}
}

func (c *Console) run(ctx context.Context) error {
	if err := c.intro(ctx); err != nil {
		return err
	}

	opened, err := c.openSlot(ctx)
	if err != nil {
		return err
	}
	if !opened {
		return errQuit
	}
	c.sessionOpen = true

	return c.menuLoop(ctx)
}

// interrupted saves the open session, if any. Nothing here may block on input.
func (c *Console) interrupted() {
	if !c.sessionOpen {
		c.Logger.Info("Session interrupted before a slot was opened")
		c.screen.Println("\nSignal lost.", "yellow")
		return
	}

	c.Logger.Info("Session interrupted, saving")

	if err := c.game.SaveProgress(); err != nil {
		c.screen.Println("\nSignal lost. Progress could not be saved.", "red")
		return
	}
	c.screen.Println("\nSignal lost. Progress saved.", "yellow")
}

func isInterrupt(ctx context.Context, err error) bool {
	if errors.Is(err, terminal.ErrInterrupt) || errors.Is(err, io.EOF) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return ctx.Err() != nil
}

func (c *Console) intro(ctx context.Context) error {
	c.screen.Clear()
	c.screen.Header("CLIFF RADIO", "a shortwave story")
	return c.screen.Static(ctx, c.diceRoller.StaticBurst(40))
}

// say types a line with the configured delay
func (c *Console) say(ctx context.Context, text, color string) error {
	return c.screen.TypeOut(ctx, text, c.options.TypeDelay, color)
}

// pause waits between paragraphs unless ctx ends first
func (c *Console) pause(ctx context.Context) error {
	if c.options.LinePause <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.options.LinePause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Console) menuLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.screen.Header("CLIFF RADIO", c.formatter.FormatStatus(c.game.Frequency(), c.game.CurrentChapter(), c.game.ActiveSlot()))
		c.screen.Println("Choose an action:", "yellow")
		c.screen.Println("  1. Tune frequency", "white")
		c.screen.Println("  2. List contacts", "white")
		c.screen.Println("  3. Story mode", "white")
		c.screen.Println("  4. Help", "white")
		c.screen.Println("  5. Save and exit", "white")

		input, err := c.screen.ReadLine(promptCommand)
		if err != nil {
			return err
		}

		if err := c.processCommand(ctx, input); err != nil {
			return err
		}
	}
}

// menuAliases maps menu numbers to commands
var menuAliases = map[string]string{
	"1": "/tune",
	"2": "/list",
	"3": "/story",
	"4": "/help",
	"5": "/quit",
}

// processCommand handles one menu entry or slash command
func (c *Console) processCommand(ctx context.Context, command string) error {
	// Clean and normalize command
	command = cleanCommand(command)
	if command == "" {
		return nil
	}
	if alias, ok := menuAliases[command]; ok {
		command = alias
	}

	// Check if command starts with '/'
	if !strings.HasPrefix(command, "/") {
		c.screen.Println("Enter a number from 1 to 5 or a command. Type /help for the list.", "red")
		return nil
	}

	// Remove the '/' prefix
	fields := strings.Fields(strings.TrimPrefix(command, "/"))
	if len(fields) == 0 {
		c.screen.Println("Type /help for the list of commands.", "red")
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "help":
		c.showHelp()
		return c.screen.WaitForContinue("")
	case "tune":
		return c.handleTuneCommand(ctx, args)
	case "list":
		return c.handleListCommand()
	case "story":
		return c.runStory(ctx)
	case "save":
		c.saveWithNotice()
		return nil
	case "slots":
		return c.handleSlotsCommand()
	case "quit", "exit":
		c.saveWithNotice()
		c.screen.Println("Cliff Radio is off the air.", "cyan")
		return errQuit
	}

	// Unknown command
	c.screen.Println(fmt.Sprintf("Unknown command /%s. Type /help for the list.", name), "red")
	return nil
}

// cleanCommand normalizes and cleans a command string
func cleanCommand(command string) string {
	// Convert to lowercase
	command = strings.ToLower(command)

	// Remove extra whitespace
	command = strings.Join(strings.Fields(command), " ")

	return command
}

func (c *Console) showHelp() {
	c.screen.Section("Help", "cyan")
	c.screen.Println("Menu:", "yellow")
	c.screen.Println("  1. Tune frequency", "white")
	c.screen.Println("  2. List contacts", "white")
	c.screen.Println("  3. Story mode", "white")
	c.screen.Println("  4. Help", "white")
	c.screen.Println("  5. Save and exit", "white")
	c.screen.Println("Commands:", "yellow")
	c.screen.Println("  /story        enter story mode", "white")
	c.screen.Println("  /tune <kHz>   tune the radio", "white")
	c.screen.Println("  /list         list reachable contacts", "white")
	c.screen.Println("  /save         save progress", "white")
	c.screen.Println("  /slots        show save slots", "white")
	c.screen.Println("  /quit         save and exit", "white")
	c.screen.Println("In story mode type a choice number, or 'quit' to return here.", "gray")
	c.screen.Println("Ctrl+C saves and exits at any time.", "gray")
}

func (c *Console) handleTuneCommand(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		c.screen.Section(fmt.Sprintf("Tuning, now at %d kHz", c.game.Frequency()), "cyan")
		input, err := c.screen.ReadLine(promptFrequency)
		if err != nil {
			return err
		}
		raw = input
	}

	freq, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "khz"))
	if err != nil || freq <= 0 {
		c.screen.Println("That is not a frequency.", "red")
		return nil
	}

	if err := c.say(ctx, fmt.Sprintf("Tuned to %d kHz", freq), "green"); err != nil {
		return err
	}

	profile, err := c.game.TuneFrequency(freq)
	if err != nil {
		if errors.Is(err, game.ErrNoSignal) {
			return c.screen.Static(ctx, c.diceRoller.StaticBurst(40))
		}
		return err
	}

	return c.say(ctx, c.formatter.FormatTransmission(profile), profile.Color)
}

func (c *Console) handleListCommand() error {
	c.screen.Section("Contacts", "cyan")

	characters := c.game.AvailableCharacters()
	if len(characters) == 0 {
		c.screen.Println("  Nobody is on the air right now.", "gray")
		return c.screen.WaitForContinue("")
	}

	for i, profile := range characters {
		c.screen.Println(c.formatter.FormatCharacter(i+1, profile), profile.Color)
	}
	return c.screen.WaitForContinue("")
}

func (c *Console) handleSlotsCommand() error {
	slots, err := c.game.Slots()
	if err != nil {
		c.screen.Println(fmt.Sprintf("Could not read saves: %v", err), "red")
		return nil
	}

	c.screen.Section("Saves", "cyan")
	for _, info := range slots {
		c.screen.Println(c.formatter.FormatSlot(info), c.formatter.SlotColor(info))
	}
	return nil
}

func (c *Console) saveWithNotice() {
	if err := c.game.SaveProgress(); err != nil {
		c.screen.Println(fmt.Sprintf("Could not save: %v", err), "red")
		return
	}
	c.screen.Println("Progress saved.", "green")
}
