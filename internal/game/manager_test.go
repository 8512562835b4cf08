package game

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cliff-radio/config"
	"github.com/user/cliff-radio/internal/story"
)

func newTestGameManager(t *testing.T) *GameManager {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Saves.Dir = filepath.Join(dir, "saves")
	cfg.Story.ProgressFile = filepath.Join(dir, "story_save.json")

	content, err := story.DefaultContent()
	require.NoError(t, err)

	return NewGameManager(cfg, content, nil)
}

func TestNewGameManager(t *testing.T) {
	gm := newTestGameManager(t)

	_, err := uuid.Parse(gm.SessionID())
	assert.NoError(t, err)
	assert.Equal(t, 0, gm.ActiveSlot())
	assert.Equal(t, story.HomeFrequency, gm.Frequency())
	assert.Equal(t, "start", gm.Progress().CurrentState())
}

func TestStartNewGame(t *testing.T) {
	// Setup
	gm := newTestGameManager(t)

	// Test case 1: Invalid slot
	assert.ErrorIs(t, gm.StartNewGame(6), ErrInvalidSlot)
	assert.Equal(t, 0, gm.ActiveSlot())

	// Test case 2: Valid slot binds the session
	require.NoError(t, gm.StartNewGame(3))
	assert.Equal(t, 3, gm.ActiveSlot())

	scene, err := gm.EnterCurrentScene()
	require.NoError(t, err)
	assert.Equal(t, "start", scene.ID)
}

func TestSelectChoice(t *testing.T) {
	// Setup
	gm := newTestGameManager(t)
	require.NoError(t, gm.StartNewGame(1))

	// Test case 1: Out of range index
	_, err := gm.SelectChoice(5)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	_, err = gm.SelectChoice(-1)
	assert.ErrorIs(t, err, ErrInvalidChoice)

	// Test case 2: Valid choice advances and autosaves to the slot
	outcome, err := gm.SelectChoice(0)
	require.NoError(t, err)
	assert.Equal(t, "start", outcome.FromState)
	assert.Equal(t, "chapter1_trapped", outcome.ToState)
	assert.True(t, outcome.Saved)
	assert.NoError(t, outcome.SaveErr)

	exists, err := gm.SlotExists(1)
	require.NoError(t, err)
	assert.True(t, exists)

	// Test case 3: Static action is reported
	require.NoError(t, gm.Progress().SetCurrentState("chapter1_radio"))
	outcome, err = gm.SelectChoice(0)
	require.NoError(t, err)
	assert.True(t, outcome.Static)
	assert.False(t, outcome.SaveRequested)

	// Test case 4: Save action is reported
	require.NoError(t, gm.Progress().SetCurrentState("chapter1_dialogue_end"))
	outcome, err = gm.SelectChoice(0)
	require.NoError(t, err)
	assert.True(t, outcome.SaveRequested)
	assert.Equal(t, 2, gm.CurrentChapter())
}

func TestLoadGame(t *testing.T) {
	// Setup
	gm := newTestGameManager(t)
	require.NoError(t, gm.StartNewGame(2))
	_, err := gm.SelectChoice(0)
	require.NoError(t, err)

	// Test case 1: Another session picks the save up
	other := NewGameManager(gm.config, gm.content, nil)
	require.NoError(t, other.LoadGame(2))
	assert.Equal(t, 2, other.ActiveSlot())
	assert.Equal(t, "chapter1_trapped", other.Progress().CurrentState())

	// Test case 2: Empty slot
	err = other.LoadGame(4)
	assert.True(t, errors.Is(err, ErrSlotEmpty))
	assert.Equal(t, 2, other.ActiveSlot())
}

func TestSaveProgressWithoutSlot(t *testing.T) {
	gm := newTestGameManager(t)

	_, err := gm.SelectChoice(0)
	require.NoError(t, err)

	// Reloads from the configured progress file
	again := NewGameManager(gm.config, gm.content, nil)
	assert.Equal(t, "chapter1_trapped", again.Progress().CurrentState())
}

func TestTuneFrequency(t *testing.T) {
	// Setup
	gm := newTestGameManager(t)

	// Test case 1: Chapter 1 only reaches the home frequency
	profile, err := gm.TuneFrequency(story.HomeFrequency)
	require.NoError(t, err)
	assert.Equal(t, "main_self", profile.CharacterID)
	assert.True(t, profile.Discovered)

	_, err = gm.TuneFrequency(14252)
	assert.ErrorIs(t, err, ErrNoSignal)
	assert.Equal(t, 14252, gm.Frequency())

	// Test case 2: Chapter 2 opens up more voices
	gm.Progress().SetVariable(story.VarCurrentChapter, 2)
	assert.Len(t, gm.AvailableCharacters(), 4)
	profile, err = gm.TuneFrequency(14252)
	require.NoError(t, err)
	assert.Equal(t, "loved_self", profile.CharacterID)

	// Test case 3: Nothing broadcasts there
	_, err = gm.TuneFrequency(100)
	assert.ErrorIs(t, err, ErrNoSignal)
}

func TestGameManagerSlots(t *testing.T) {
	gm := newTestGameManager(t)
	require.NoError(t, gm.StartNewGame(5))
	require.NoError(t, gm.SaveProgress())

	slots, err := gm.Slots()
	require.NoError(t, err)
	assert.True(t, slots[4].Exists)
	assert.Equal(t, PlayTimeNew, slots[4].PlayTime)

	require.NoError(t, gm.DeleteSlot(5))
	exists, err := gm.SlotExists(5)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 5, gm.ActiveSlot())
}
