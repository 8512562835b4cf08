package interfaces

import "github.com/user/cliff-radio/internal/types"

// GameManager defines the interface for session operations
type GameManager interface {
	SessionID() string
	ActiveSlot() int
	StartNewGame(slot int) error
	LoadGame(slot int) error
	SaveProgress() error
	CurrentScene() (*types.StoryScene, error)
	EnterCurrentScene() (*types.StoryScene, error)
	SelectChoice(index int) (*types.ChoiceOutcome, error)
	Frequency() int
	TuneFrequency(freq int) (*types.CharacterProfile, error)
	AvailableCharacters() []*types.CharacterProfile
	CurrentChapter() int
	Slots() ([]types.SlotInfo, error)
	SlotExists(slot int) (bool, error)
	DeleteSlot(slot int) error
}
