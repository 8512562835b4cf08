package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/user/cliff-radio/internal/storage"
	"github.com/user/cliff-radio/internal/story"
	"github.com/user/cliff-radio/internal/types"
	"go.uber.org/zap"
)

// MaxSlots is the number of save slots
const MaxSlots = 5

// Slot summary labels
const (
	StateEmpty = "empty"
	StateError = "error"

	PlayTimeNew     = "new game"
	PlayTimeUnknown = "unknown"
)

const summaryCacheSize = 32

var (
	// ErrInvalidSlot is returned for slot numbers outside 1..MaxSlots
	ErrInvalidSlot = fmt.Errorf("slot must be between 1 and %d", MaxSlots)

	// ErrSlotEmpty is returned when loading a slot that holds no save
	ErrSlotEmpty = errors.New("save slot is empty")
)

// CorruptSaveError reports a slot file that exists but cannot be parsed
type CorruptSaveError struct {
	Slot int
	Path string
	Err  error
}

func (e *CorruptSaveError) Error() string {
	return fmt.Sprintf("save slot %d is corrupt: %v", e.Slot, e.Err)
}

func (e *CorruptSaveError) Unwrap() error {
	return e.Err
}

// PersistenceIOError reports a filesystem failure while handling a slot
type PersistenceIOError struct {
	Op   string
	Slot int
	Path string
	Err  error
}

func (e *PersistenceIOError) Error() string {
	return fmt.Sprintf("failed to %s slot %d: %v", e.Op, e.Slot, e.Err)
}

func (e *PersistenceIOError) Unwrap() error {
	return e.Err
}

// SaveManager handles persistence of progress in numbered slots.
// It is driven from the session goroutine only and holds no locks.
type SaveManager struct {
	savesDir  string
	content   *story.Content
	summaries *lru.Cache[string, types.SlotInfo]
	Logger    *zap.Logger
}

// NewSaveManager creates a save manager over savesDir. The directory is created on first write.
func NewSaveManager(savesDir string, content *story.Content, logger *zap.Logger) *SaveManager {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Size is a positive constant, New only fails for size <= 0
	summaries, _ := lru.New[string, types.SlotInfo](summaryCacheSize)

	return &SaveManager{
		savesDir:  savesDir,
		content:   content,
		summaries: summaries,
		Logger:    logger,
	}
}

// Dir returns the saves directory
func (sm *SaveManager) Dir() string {
	return sm.savesDir
}

// SlotPath returns the file backing a slot
func (sm *SaveManager) SlotPath(slot int) string {
	return filepath.Join(sm.savesDir, fmt.Sprintf("save_%d.json", slot))
}

func validSlot(slot int) error {
	if slot < 1 || slot > MaxSlots {
		return fmt.Errorf("%w: got %d", ErrInvalidSlot, slot)
	}
	return nil
}

// ListSlots summarizes every slot in slot order
func (sm *SaveManager) ListSlots() ([]types.SlotInfo, error) {
	slots := make([]types.SlotInfo, 0, MaxSlots)
	for slot := 1; slot <= MaxSlots; slot++ {
		slots = append(slots, sm.describeSlot(slot))
	}

	return slots, nil
}

// describeSlot summarizes one slot, reusing a cached summary while the file is unchanged
func (sm *SaveManager) describeSlot(slot int) types.SlotInfo {
	path := sm.SlotPath(slot)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.SlotInfo{
				Slot:           slot,
				Path:           path,
				Exists:         false,
				CurrentState:   StateEmpty,
				CurrentChapter: 1,
				PlayTime:       PlayTimeNew,
			}
		}
		return errorSlot(slot, path, &PersistenceIOError{Op: "stat", Slot: slot, Path: path, Err: err})
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	if cached, ok := sm.summaries.Get(key); ok {
		return cached
	}

	summary := sm.summarize(slot, path)
	summary.LastModified = info.ModTime()
	sm.summaries.Add(key, summary)

	return summary
}

func (sm *SaveManager) summarize(slot int, path string) types.SlotInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		return errorSlot(slot, path, &PersistenceIOError{Op: "read", Slot: slot, Path: path, Err: err})
	}

	progress, err := story.Deserialize(data, sm.content, nil)
	if err != nil {
		sm.Logger.Warn("Corrupt save slot",
			zap.Int("slot", slot),
			zap.String("path", path),
			zap.Error(err))
		return errorSlot(slot, path, &CorruptSaveError{Slot: slot, Path: path, Err: err})
	}

	choices := len(progress.ChoicesMade())
	return types.SlotInfo{
		Slot:           slot,
		Path:           path,
		Exists:         true,
		CurrentState:   progress.CurrentState(),
		ChoicesCount:   choices,
		CurrentChapter: progress.CurrentChapter(),
		PlayTime:       PlayTimeLabel(choices),
	}
}

func errorSlot(slot int, path string, err error) types.SlotInfo {
	return types.SlotInfo{
		Slot:           slot,
		Path:           path,
		Exists:         true,
		CurrentState:   StateError,
		CurrentChapter: 1,
		PlayTime:       PlayTimeUnknown,
		Err:            err,
	}
}

// PlayTimeLabel estimates how far along a save is from its number of choices
func PlayTimeLabel(choices int) string {
	switch {
	case choices == 0:
		return PlayTimeNew
	case choices < 5:
		return "just started"
	case choices < 15:
		return "in progress"
	case choices < 30:
		return "deep in"
	default:
		return "near completion"
	}
}

// SaveToSlot writes progress to a slot. The previous save survives any failure.
func (sm *SaveManager) SaveToSlot(slot int, progress *story.Progress) error {
	if err := validSlot(slot); err != nil {
		return err
	}

	data, err := progress.Serialize()
	if err != nil {
		return err
	}

	path := sm.SlotPath(slot)
	if err := storage.WriteFileAtomic(path, data, 0644); err != nil {
		sm.Logger.Error("Failed to save slot",
			zap.Int("slot", slot),
			zap.String("path", path),
			zap.Error(err))
		return &PersistenceIOError{Op: "save", Slot: slot, Path: path, Err: err}
	}

	sm.Logger.Info("Saved slot",
		zap.Int("slot", slot),
		zap.String("state", progress.CurrentState()),
		zap.Int("choices", len(progress.ChoicesMade())))

	return nil
}

// LoadFromSlot restores progress from a slot. A corrupt file is reported and left in place.
func (sm *SaveManager) LoadFromSlot(slot int) (*story.Progress, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}

	path := sm.SlotPath(slot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSlotEmpty
		}
		return nil, &PersistenceIOError{Op: "load", Slot: slot, Path: path, Err: err}
	}

	progress, err := story.Deserialize(data, sm.content, sm.Logger)
	if err != nil {
		return nil, &CorruptSaveError{Slot: slot, Path: path, Err: err}
	}

	sm.Logger.Info("Loaded slot",
		zap.Int("slot", slot),
		zap.String("state", progress.CurrentState()))

	return progress, nil
}

// DeleteSlot removes a slot's save. Deleting an empty slot is not an error.
func (sm *SaveManager) DeleteSlot(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}

	path := sm.SlotPath(slot)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &PersistenceIOError{Op: "delete", Slot: slot, Path: path, Err: err}
	}

	sm.Logger.Info("Deleted slot", zap.Int("slot", slot))
	return nil
}

// SlotExists reports whether a slot holds a save file
func (sm *SaveManager) SlotExists(slot int) (bool, error) {
	if err := validSlot(slot); err != nil {
		return false, err
	}

	path := sm.SlotPath(slot)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &PersistenceIOError{Op: "stat", Slot: slot, Path: path, Err: err}
	}

	return true, nil
}
