package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/user/cliff-radio/config"
	"github.com/user/cliff-radio/internal/interfaces"
	"github.com/user/cliff-radio/internal/story"
	"github.com/user/cliff-radio/internal/types"
	"go.uber.org/zap"
)

// Choice actions understood by the session
const (
	ActionSave   = "save"
	ActionStatic = "static"
)

var (
	// ErrInvalidChoice is returned for a choice index the current scene does not offer
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrNoSignal is returned when no reachable character broadcasts on a frequency
	ErrNoSignal = errors.New("no signal on this frequency")
)

// GameManager handles one player's session: progress, active slot and radio dial
type GameManager struct {
	config     config.Config
	content    *story.Content
	progress   *story.Progress
	saves      *SaveManager
	activeSlot int
	frequency  int
	sessionID  string
	Logger     *zap.Logger
}

// Ensure GameManager satisfies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager creates a new game manager. Progress starts from the configured
// progress file when one exists.
func NewGameManager(cfg config.Config, content *story.Content, logger *zap.Logger) *GameManager {
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionID := uuid.New().String()
	logger = logger.With(zap.String("session_id", sessionID))

	return &GameManager{
		config:    cfg,
		content:   content,
		progress:  story.NewProgress(content, cfg.Story.ProgressFile, logger),
		saves:     NewSaveManager(cfg.Saves.Dir, content, logger),
		frequency: story.HomeFrequency,
		sessionID: sessionID,
		Logger:    logger,
	}
}

// SessionID returns the id attached to this session's log lines
func (gm *GameManager) SessionID() string {
	return gm.sessionID
}

// Progress returns the live progress
func (gm *GameManager) Progress() *story.Progress {
	return gm.progress
}

// SaveManager returns the slot store
func (gm *GameManager) SaveManager() *SaveManager {
	return gm.saves
}

// ActiveSlot returns the slot progress is saved to, or 0 when none is active
func (gm *GameManager) ActiveSlot() int {
	return gm.activeSlot
}

// StartNewGame resets progress and binds it to slot
func (gm *GameManager) StartNewGame(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}

	gm.progress = story.NewProgress(gm.content, "", gm.Logger)
	gm.activeSlot = slot
	gm.frequency = story.HomeFrequency

	gm.Logger.Info("Started new game", zap.Int("slot", slot))
	return nil
}

// LoadGame replaces progress with the contents of slot
func (gm *GameManager) LoadGame(slot int) error {
	progress, err := gm.saves.LoadFromSlot(slot)
	if err != nil {
		gm.Logger.Warn("Failed to load game",
			zap.Int("slot", slot),
			zap.Error(err))
		return err
	}

	gm.progress = progress
	gm.activeSlot = slot
	gm.frequency = story.HomeFrequency

	gm.Logger.Info("Loaded game",
		zap.Int("slot", slot),
		zap.String("state", progress.CurrentState()))
	return nil
}

// SaveProgress saves to the active slot, or to the progress file when no slot is active
func (gm *GameManager) SaveProgress() error {
	var err error
	if gm.activeSlot > 0 {
		err = gm.saves.SaveToSlot(gm.activeSlot, gm.progress)
	} else {
		err = gm.progress.SaveProgress()
	}

	if err != nil {
		gm.Logger.Error("Failed to save progress",
			zap.Int("slot", gm.activeSlot),
			zap.Error(err))
		return err
	}

	return nil
}

// CurrentScene resolves the current scene without side effects
func (gm *GameManager) CurrentScene() (*types.StoryScene, error) {
	return gm.progress.ResolveCurrentScene()
}

// EnterCurrentScene resolves the current scene and applies its entry effects
func (gm *GameManager) EnterCurrentScene() (*types.StoryScene, error) {
	scene, err := gm.progress.ResolveCurrentScene()
	if err != nil {
		gm.Logger.Error("Failed to resolve scene",
			zap.String("state", gm.progress.CurrentState()),
			zap.Error(err))
		return nil, err
	}

	gm.progress.EnterScene(scene)
	if gm.progress.IsEnding() {
		gm.Logger.Info("Reached ending", zap.String("ending", scene.ID))
	}

	return scene, nil
}

// SelectChoice applies the index-th choice (zero based) of the current scene,
// runs its action and saves.
func (gm *GameManager) SelectChoice(index int) (*types.ChoiceOutcome, error) {
	scene, err := gm.progress.ResolveCurrentScene()
	if err != nil {
		return nil, err
	}

	// Validate choice
	if index < 0 || index >= len(scene.Choices) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidChoice, index+1, len(scene.Choices))
	}
	choice := scene.Choices[index]

	gm.progress.ApplyChoice(choice)

	outcome := &types.ChoiceOutcome{
		Choice:    choice,
		FromState: scene.ID,
		ToState:   choice.NextState,
	}

	switch choice.Action {
	case "":
	case ActionSave:
		outcome.SaveRequested = true
	case ActionStatic:
		outcome.Static = true
	default:
		gm.Logger.Warn("Unknown choice action",
			zap.String("action", choice.Action),
			zap.String("state", scene.ID))
	}

	// Autosave after every choice
	if err := gm.SaveProgress(); err != nil {
		outcome.SaveErr = err
	} else {
		outcome.Saved = true
	}

	return outcome, nil
}

// Frequency returns the frequency the radio is tuned to
func (gm *GameManager) Frequency() int {
	return gm.frequency
}

// TuneFrequency tunes the radio and discovers the character broadcasting there,
// if they belong to the current chapter.
func (gm *GameManager) TuneFrequency(freq int) (*types.CharacterProfile, error) {
	gm.frequency = freq

	for _, profile := range gm.AvailableCharacters() {
		if profile.Frequency != freq {
			continue
		}
		gm.progress.Characters().MarkDiscovered(profile.CharacterID)

		gm.Logger.Info("Tuned to character",
			zap.Int("frequency", freq),
			zap.String("character_id", profile.CharacterID))
		return profile, nil
	}

	gm.Logger.Debug("No signal", zap.Int("frequency", freq))
	return nil, ErrNoSignal
}

// CurrentChapter returns the chapter the player is in
func (gm *GameManager) CurrentChapter() int {
	return gm.progress.CurrentChapter()
}

// AvailableCharacters returns the characters of the current chapter that are
// available or already discovered
func (gm *GameManager) AvailableCharacters() []*types.CharacterProfile {
	chapter := gm.progress.CurrentChapter()

	var characters []*types.CharacterProfile
	for _, profile := range gm.progress.Characters().ListByChapter(chapter) {
		if profile.Available || profile.Discovered {
			characters = append(characters, profile)
		}
	}

	return characters
}

// Slots summarizes every save slot
func (gm *GameManager) Slots() ([]types.SlotInfo, error) {
	return gm.saves.ListSlots()
}

// SlotExists reports whether a slot holds a save
func (gm *GameManager) SlotExists(slot int) (bool, error) {
	return gm.saves.SlotExists(slot)
}

// DeleteSlot removes a save. The session keeps its active slot, so the next save recreates it.
func (gm *GameManager) DeleteSlot(slot int) error {
	return gm.saves.DeleteSlot(slot)
}
