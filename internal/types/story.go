package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// StoryState identifies a scene in the story graph
type StoryState string

// Known story states
const (
	StateStart                    StoryState = "start"
	StateChapter1Trapped          StoryState = "chapter1_trapped"
	StateChapter1Exploring        StoryState = "chapter1_exploring"
	StateChapter1FirstContact     StoryState = "chapter1_first_contact"
	StateChapter1Photo            StoryState = "chapter1_photo"
	StateChapter1Locked           StoryState = "chapter1_locked"
	StateChapter1Radio            StoryState = "chapter1_radio"
	StateChapter1RockingChair     StoryState = "chapter1_rocking_chair"
	StateChapter1DialogueEnd      StoryState = "chapter1_dialogue_end"
	StateChapter2Act1Scene1       StoryState = "chapter2_act1_scene1"
	StateChapter2Act1Contact1     StoryState = "chapter2_act1_contact1"
	StateChapter2MultipleContacts StoryState = "chapter2_multiple_contacts"
	StateChapter2CodeName         StoryState = "chapter2_code_name"
	StateChapter2ManAppears       StoryState = "chapter2_man_appears"
	StateChapter3ChoiceIntro      StoryState = "chapter3_choice_intro"
	StateChapter3FirstView        StoryState = "chapter3_first_view"
	StateChapter3SecondView       StoryState = "chapter3_second_view"
	StateChapter3ThirdView        StoryState = "chapter3_third_view"
	StateChapter4FinalChoice      StoryState = "chapter4_final_choice"
	StateEnding1Accept            StoryState = "ending1_accept"
	StateEnding2Knowledge         StoryState = "ending2_knowledge"
	StateEnding3Loop              StoryState = "ending3_loop"
)

var allStates = []StoryState{
	StateStart,
	StateChapter1Trapped,
	StateChapter1Exploring,
	StateChapter1FirstContact,
	StateChapter1Photo,
	StateChapter1Locked,
	StateChapter1Radio,
	StateChapter1RockingChair,
	StateChapter1DialogueEnd,
	StateChapter2Act1Scene1,
	StateChapter2Act1Contact1,
	StateChapter2MultipleContacts,
	StateChapter2CodeName,
	StateChapter2ManAppears,
	StateChapter3ChoiceIntro,
	StateChapter3FirstView,
	StateChapter3SecondView,
	StateChapter3ThirdView,
	StateChapter4FinalChoice,
	StateEnding1Accept,
	StateEnding2Knowledge,
	StateEnding3Loop,
}

var endingStates = []StoryState{
	StateEnding1Accept,
	StateEnding2Knowledge,
	StateEnding3Loop,
}

// AllStates returns every known story state in story order
func AllStates() []StoryState {
	out := make([]StoryState, len(allStates))
	copy(out, allStates)
	return out
}

// EndingStates returns the terminal states
func EndingStates() []StoryState {
	out := make([]StoryState, len(endingStates))
	copy(out, endingStates)
	return out
}

// IsKnown reports whether s is one of the known story states
func (s StoryState) IsKnown() bool {
	for _, known := range allStates {
		if s == known {
			return true
		}
	}
	return false
}

// IsEnding reports whether s is one of the three endings
func (s StoryState) IsEnding() bool {
	for _, ending := range endingStates {
		if s == ending {
			return true
		}
	}
	return false
}

// String returns the identifier
func (s StoryState) String() string {
	return string(s)
}

// ParseStoryState validates a raw identifier against the known states
func ParseStoryState(raw string) (StoryState, error) {
	state := StoryState(raw)
	if !state.IsKnown() {
		return "", fmt.Errorf("unknown story state %q", raw)
	}
	return state, nil
}

// CharacterProfile represents a voice the player can reach on the radio
type CharacterProfile struct {
	CharacterID string `json:"character_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Personality string `json:"personality"`
	Background  string `json:"background"`
	VoiceStyle  string `json:"voice_style"`
	Frequency   int    `json:"frequency"`

	// Derived from CharacterID, never persisted
	Callsign string `json:"-"`
	Color    string `json:"-"`

	// Mutable state
	TrustLevel int  `json:"trust_level"`
	Available  bool `json:"available"`
	Discovered bool `json:"discovered"`
}

// UnmarshalJSON decodes a profile. A missing "available" key means available,
// matching saves that predate the field.
func (p *CharacterProfile) UnmarshalJSON(data []byte) error {
	type plain CharacterProfile
	decoded := plain{Available: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = CharacterProfile(decoded)
	return nil
}

// StoryChoice represents an option the player can pick in a scene
type StoryChoice struct {
	Text      string `json:"text" yaml:"text"`
	NextState string `json:"next_state" yaml:"next_state"`

	// Side-effect instruction for the front end (e.g. "save")
	Action string `json:"action,omitempty" yaml:"action,omitempty"`

	// Reserved gating hook, not evaluated
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`

	VariableChanges map[string]interface{} `json:"variable_changes,omitempty" yaml:"variable_changes,omitempty"`
	TrustChanges    map[string]int         `json:"trust_changes,omitempty" yaml:"trust_changes,omitempty"`
}

// StoryScene represents one narrative beat
type StoryScene struct {
	ID      string        `json:"id" yaml:"id"`
	Title   string        `json:"title,omitempty" yaml:"title,omitempty"`
	Content []string      `json:"content" yaml:"content"`
	Choices []StoryChoice `json:"choices" yaml:"choices"`

	// Presentation hints
	AudioEffect      string `json:"audio_effect,omitempty" yaml:"audio_effect,omitempty"`
	TransitionEffect string `json:"transition_effect,omitempty" yaml:"transition_effect,omitempty"`

	CharacterID string `json:"character_id,omitempty" yaml:"character_id,omitempty"`

	// Applied when the scene is entered
	VariableChanges map[string]interface{} `json:"variable_changes,omitempty" yaml:"variable_changes,omitempty"`
}

// IsTerminal reports whether the scene offers no way forward
func (s *StoryScene) IsTerminal() bool {
	return len(s.Choices) == 0
}

// ChoiceRecord represents a choice made by the player
type ChoiceRecord struct {
	State      string    `json:"state"`
	ChoiceID   string    `json:"choice_id"`
	ChoiceText string    `json:"choice_text"`
	Timestamp  Timestamp `json:"timestamp"`
}

// SaveData represents a complete persisted progress snapshot
type SaveData struct {
	CurrentState    string                       `json:"current_state"`
	ChoicesMade     []ChoiceRecord               `json:"choices_made"`
	Variables       map[string]interface{}       `json:"variables"`
	ChapterProgress map[string]bool              `json:"chapter_progress"`
	EndingsUnlocked []string                     `json:"endings_unlocked"`
	Characters      map[string]*CharacterProfile `json:"characters"`
}

// SlotInfo describes one save slot
type SlotInfo struct {
	Slot           int       `json:"slot"`
	Path           string    `json:"path"`
	Exists         bool      `json:"exists"`
	LastModified   time.Time `json:"last_modified"`
	CurrentState   string    `json:"current_state"`
	ChoicesCount   int       `json:"choices_count"`
	CurrentChapter int       `json:"current_chapter"`
	PlayTime       string    `json:"play_time"`

	// Set when the slot file exists but cannot be parsed
	Err error `json:"-"`
}

// Corrupt reports whether the slot holds an unreadable snapshot
func (s SlotInfo) Corrupt() bool {
	return s.Exists && s.Err != nil
}

// ChoiceOutcome describes what happened when a choice was selected
type ChoiceOutcome struct {
	Choice    StoryChoice
	FromState string
	ToState   string

	// Action hints for the front end
	SaveRequested bool
	Static        bool

	// Autosave result
	Saved   bool
	SaveErr error
}
