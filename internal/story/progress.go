package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/user/cliff-radio/internal/storage"
	"github.com/user/cliff-radio/internal/types"
	"go.uber.org/zap"
)

// Variable names with defined defaults
const (
	VarPlayerCodeName   = "player_code_name"
	VarViewCount        = "view_count"
	VarFirstViewChoice  = "first_view_choice"
	VarSecondViewChoice = "second_view_choice"
	VarThirdViewChoice  = "third_view_choice"
	VarManAppeared      = "man_appeared"
	VarLoopCount        = "loop_count"
	VarCurrentChapter   = "current_chapter"
)

// ErrNoSaveFile is returned by SaveProgress when the progress has no backing file
var ErrNoSaveFile = errors.New("progress has no save file")

func defaultVariables() map[string]interface{} {
	return map[string]interface{}{
		VarPlayerCodeName:   nil,
		VarViewCount:        0,
		VarFirstViewChoice:  nil,
		VarSecondViewChoice: nil,
		VarThirdViewChoice:  nil,
		VarManAppeared:      false,
		VarLoopCount:        0,
		VarCurrentChapter:   1,
	}
}

func defaultChapterProgress() map[string]bool {
	progress := make(map[string]bool, ChapterCount)
	for chapter := 1; chapter <= ChapterCount; chapter++ {
		progress[chapterKey(chapter)] = false
	}
	return progress
}

func chapterKey(chapter int) string {
	return fmt.Sprintf("chapter%d", chapter)
}

// Progress tracks the player's position in the story and everything they have done
type Progress struct {
	currentState    string
	choicesMade     []types.ChoiceRecord
	variables       map[string]interface{}
	chapterProgress map[string]bool
	endingsUnlocked []string

	characters *CharacterRegistry
	content    *Content
	saveFile   string
	logger     *zap.Logger
	now        func() time.Time
}

// NewProgress creates progress with default state and then tries to load saveFile.
// A missing or unreadable file leaves the defaults in place.
func NewProgress(content *Content, saveFile string, logger *zap.Logger) *Progress {
	p := newProgress(content, saveFile, logger)

	if saveFile != "" {
		if err := p.loadProgress(); err != nil {
			p.logger.Warn("Failed to load progress, starting fresh",
				zap.String("path", saveFile),
				zap.Error(err))
		}
	}

	return p
}

func newProgress(content *Content, saveFile string, logger *zap.Logger) *Progress {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Progress{
		currentState:    string(types.StateStart),
		choicesMade:     make([]types.ChoiceRecord, 0),
		variables:       defaultVariables(),
		chapterProgress: defaultChapterProgress(),
		endingsUnlocked: make([]string, 0),
		characters:      NewCharacterRegistry(),
		content:         content,
		saveFile:        saveFile,
		logger:          logger,
		now:             time.Now,
	}
}

// loadProgress restores state from the save file; a missing file is not an error
func (p *Progress) loadProgress() error {
	data, err := os.ReadFile(p.saveFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read progress file: %w", err)
	}

	saved, err := decodeSaveData(data)
	if err != nil {
		return err
	}
	p.RestoreSaveData(saved)

	p.logger.Info("Loaded progress",
		zap.String("path", p.saveFile),
		zap.String("state", p.currentState),
		zap.Int("choices", len(p.choicesMade)))

	return nil
}

// SaveProgress writes the full state to the save file. Failures are logged and returned.
func (p *Progress) SaveProgress() error {
	if p.saveFile == "" {
		return ErrNoSaveFile
	}

	data, err := p.Serialize()
	if err != nil {
		p.logger.Error("Failed to serialize progress", zap.Error(err))
		return err
	}

	if err := storage.WriteFileAtomic(p.saveFile, data, 0644); err != nil {
		p.logger.Error("Failed to save progress",
			zap.String("path", p.saveFile),
			zap.Error(err))
		return err
	}

	return nil
}

// SaveFile returns the default persisted location
func (p *Progress) SaveFile() string {
	return p.saveFile
}

// CurrentState returns the raw current state identifier
func (p *Progress) CurrentState() string {
	return p.currentState
}

// SetCurrentState assigns a known state. Unknown identifiers are rejected.
func (p *Progress) SetCurrentState(state types.StoryState) error {
	if !state.IsKnown() {
		return fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	p.currentState = string(state)
	return nil
}

// ResolveCurrentScene returns the scene for the current state
func (p *Progress) ResolveCurrentScene() (*types.StoryScene, error) {
	if !types.StoryState(p.currentState).IsKnown() {
		return nil, &ContentIntegrityError{State: p.currentState, Reason: "is not a known story state"}
	}
	if p.content == nil {
		return nil, &ContentIntegrityError{State: p.currentState, Reason: "cannot be resolved without content"}
	}

	scene, exists := p.content.GetScene(p.currentState)
	if !exists {
		return nil, &ContentIntegrityError{State: p.currentState, Reason: "has no scene in the loaded content"}
	}

	return scene, nil
}

// IsEnding reports whether the current state is one of the endings
func (p *Progress) IsEnding() bool {
	return types.StoryState(p.currentState).IsEnding()
}

// MakeChoice records a choice against the current state and infers chapter progress
// from the target identifier.
func (p *Progress) MakeChoice(choiceID, choiceText string) {
	p.choicesMade = append(p.choicesMade, types.ChoiceRecord{
		State:      p.currentState,
		ChoiceID:   choiceID,
		ChoiceText: choiceText,
		Timestamp:  types.NewTimestamp(p.now()),
	})

	for chapter := 2; chapter <= ChapterCount; chapter++ {
		if !strings.HasPrefix(choiceID, chapterKey(chapter)+"_") {
			continue
		}
		if !p.chapterProgress[chapterKey(chapter)] {
			p.UpdateChapterProgress(chapter)
			p.SetVariable(VarCurrentChapter, chapter)
		}
		break
	}
}

// ApplyChoice records the choice, applies its variable and trust changes and moves
// to its target. The target is not validated here; ResolveCurrentScene reports it.
func (p *Progress) ApplyChoice(choice types.StoryChoice) {
	previous := p.currentState

	p.MakeChoice(choice.NextState, choice.Text)
	p.applyVariables(choice.VariableChanges)
	for _, id := range sortedKeys(choice.TrustChanges) {
		p.characters.ApplyTrustDelta(id, choice.TrustChanges[id])
	}
	p.currentState = choice.NextState

	p.logger.Debug("Applied choice",
		zap.String("from", previous),
		zap.String("to", choice.NextState),
		zap.String("text", choice.Text))
}

// EnterScene applies the scene's entry effects
func (p *Progress) EnterScene(scene *types.StoryScene) {
	if scene == nil {
		return
	}

	p.applyVariables(scene.VariableChanges)
	if scene.CharacterID != "" {
		p.characters.MarkDiscovered(scene.CharacterID)
	}
	if types.StoryState(scene.ID).IsEnding() {
		p.UnlockEnding(scene.ID)
	}
}

func (p *Progress) applyVariables(changes map[string]interface{}) {
	for _, key := range sortedKeys(changes) {
		p.SetVariable(key, changes[key])
	}
}

// SetVariable sets a story variable
func (p *Progress) SetVariable(key string, value interface{}) {
	p.variables[key] = value
}

// GetVariable returns a story variable or def when unset
func (p *Progress) GetVariable(key string, def interface{}) interface{} {
	if value, exists := p.variables[key]; exists {
		return value
	}
	return def
}

// GetInt returns a numeric story variable as an int
func (p *Progress) GetInt(key string, def int) int {
	switch v := p.GetVariable(key, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

// Variables returns a copy of the variable store
func (p *Progress) Variables() map[string]interface{} {
	out := make(map[string]interface{}, len(p.variables))
	for k, v := range p.variables {
		out[k] = v
	}
	return out
}

// CurrentChapter returns the chapter the player is in
func (p *Progress) CurrentChapter() int {
	return p.GetInt(VarCurrentChapter, 1)
}

// UpdateChapterProgress marks a chapter as reached
func (p *Progress) UpdateChapterProgress(chapter int) {
	p.chapterProgress[chapterKey(chapter)] = true
}

// ChapterProgress returns a copy of the chapter flags
func (p *Progress) ChapterProgress() map[string]bool {
	out := make(map[string]bool, len(p.chapterProgress))
	for k, v := range p.chapterProgress {
		out[k] = v
	}
	return out
}

// ChoicesMade returns a copy of the choice history
func (p *Progress) ChoicesMade() []types.ChoiceRecord {
	out := make([]types.ChoiceRecord, len(p.choicesMade))
	copy(out, p.choicesMade)
	return out
}

// UnlockEnding records an ending once
func (p *Progress) UnlockEnding(id string) {
	for _, unlocked := range p.endingsUnlocked {
		if unlocked == id {
			return
		}
	}
	p.endingsUnlocked = append(p.endingsUnlocked, id)
}

// EndingsUnlocked returns the endings reached so far
func (p *Progress) EndingsUnlocked() []string {
	out := make([]string, len(p.endingsUnlocked))
	copy(out, p.endingsUnlocked)
	return out
}

// Characters returns the character registry owned by this progress
func (p *Progress) Characters() *CharacterRegistry {
	return p.characters
}

// Content returns the scene graph this progress resolves against
func (p *Progress) Content() *Content {
	return p.content
}

// ToSaveData returns a detached snapshot of the full state
func (p *Progress) ToSaveData() *types.SaveData {
	return &types.SaveData{
		CurrentState:    p.currentState,
		ChoicesMade:     p.ChoicesMade(),
		Variables:       p.Variables(),
		ChapterProgress: p.ChapterProgress(),
		EndingsUnlocked: p.EndingsUnlocked(),
		Characters:      p.characters.Snapshot(),
	}
}

// RestoreSaveData replaces the state with a snapshot. Defaults fill anything the
// snapshot leaves out. The current state is kept as stored, known or not.
func (p *Progress) RestoreSaveData(saved *types.SaveData) {
	p.currentState = saved.CurrentState
	if p.currentState == "" {
		p.currentState = string(types.StateStart)
	}

	p.choicesMade = make([]types.ChoiceRecord, len(saved.ChoicesMade))
	copy(p.choicesMade, saved.ChoicesMade)

	p.variables = defaultVariables()
	for k, v := range saved.Variables {
		p.variables[k] = normalizeValue(v)
	}

	p.chapterProgress = defaultChapterProgress()
	for k, v := range saved.ChapterProgress {
		p.chapterProgress[k] = v
	}

	p.endingsUnlocked = make([]string, len(saved.EndingsUnlocked))
	copy(p.endingsUnlocked, saved.EndingsUnlocked)

	p.characters = NewCharacterRegistry()
	p.characters.Restore(saved.Characters)
}

// Serialize encodes the full state as indented JSON
func (p *Progress) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(p.ToSaveData(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress: %w", err)
	}
	return data, nil
}

// Deserialize builds progress from serialized state without touching any save file
func Deserialize(data []byte, content *Content, logger *zap.Logger) (*Progress, error) {
	saved, err := decodeSaveData(data)
	if err != nil {
		return nil, err
	}

	p := newProgress(content, "", logger)
	p.RestoreSaveData(saved)
	return p, nil
}

func decodeSaveData(data []byte) (*types.SaveData, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("failed to parse progress: not a JSON object")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var saved types.SaveData
	if err := decoder.Decode(&saved); err != nil {
		return nil, fmt.Errorf("failed to parse progress: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("failed to parse progress: trailing data")
	}

	return &saved, nil
}

// normalizeValue converts decoded JSON numbers back to int where they are integral
func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return int(n)
		}
		if f, err := value.Float64(); err == nil {
			return f
		}
		return value.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, inner := range value {
			out[k] = normalizeValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, inner := range value {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
