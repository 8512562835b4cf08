package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/user/cliff-radio/config"
	"github.com/user/cliff-radio/internal/console"
	"github.com/user/cliff-radio/internal/game"
	"github.com/user/cliff-radio/internal/story"
	"github.com/user/cliff-radio/internal/terminal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	cfg        config.Config
	logger     = zap.NewNop()
)

// rootCmd plays the story when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "radio",
	Short: "Cliff Radio - a shortwave story",
	Long: `Cliff Radio is a terminal story. You wake up in a cabin on a cliff,
turn on an old radio, and hear other versions of yourself.

Run without a subcommand to play.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		// Command line flags win over file and environment
		if instant, _ := cmd.Flags().GetBool("instant"); instant {
			cfg.Display.Instant = true
		}
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			cfg.Display.NoColor = true
		}
		if cfg.Display.NoColor {
			color.NoColor = true
		}

		// Set up logger
		logger, err = setupLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to set up logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config.json", "Path to configuration file")
	rootCmd.PersistentFlags().Bool("instant", false, "Print text at once instead of typing it out")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// setupLogger builds a production logger writing to the configured file.
// The terminal is reserved for the story, so an empty file disables logging.
func setupLogger(logCfg config.LogConfig) (*zap.Logger, error) {
	if logCfg.File == "" {
		return zap.NewNop(), nil
	}

	level, err := zap.ParseAtomicLevel(logCfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logCfg.Level, err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = level
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.OutputPaths = []string{logCfg.File}
	zapConfig.ErrorOutputPaths = []string{logCfg.File}

	return zapConfig.Build()
}

// loadContent loads the story from the configured directory or the built-in chapters
func loadContent() (*story.Content, error) {
	loader := story.NewDataLoader()
	if cfg.Story.ContentDir != "" {
		loader = story.NewDirDataLoader(cfg.Story.ContentDir)
	}

	content, err := loader.LoadContent()
	if err != nil {
		return nil, fmt.Errorf("failed to load story content: %w", err)
	}

	for _, ref := range content.DanglingReferences() {
		logger.Warn("Choice points to a missing scene",
			zap.String("scene", ref.SceneID),
			zap.Int("choice", ref.ChoiceIndex+1),
			zap.String("target", ref.Target))
	}

	logger.Info("Loaded story content",
		zap.Int("scenes", content.Len()),
		zap.String("content_dir", cfg.Story.ContentDir))
	return content, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	content, err := loadContent()
	if err != nil {
		return err
	}

	// Ctrl+C outside a prompt cancels the context; inside a prompt readline reports it
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameManager := game.NewGameManager(cfg, content, logger)

	blocker := terminal.NewInputBlocker(os.Stdin, logger)
	screen := terminal.NewScreen(terminal.Options{
		Blocker: blocker,
		Instant: cfg.Display.Instant,
		NoColor: cfg.Display.NoColor,
	}, logger)
	defer screen.Close()

	opts := console.Options{
		TypeDelay: time.Duration(cfg.Display.TypeDelayMS) * time.Millisecond,
		LinePause: time.Duration(cfg.Display.LinePauseMS) * time.Millisecond,
	}
	if cfg.Display.Instant {
		opts.LinePause = 0
	}

	logger.Info("Starting session", zap.String("session_id", gameManager.SessionID()))

	err = console.NewConsole(gameManager, screen, nil, opts, logger).Run(ctx)
	if err != nil && !errors.Is(err, console.ErrInterrupted) {
		logger.Error("Session failed", zap.Error(err))
	}
	return err
}
