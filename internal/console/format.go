package console

import (
	"fmt"
	"strings"

	"github.com/user/cliff-radio/internal/types"
)

// Formatter renders session data as display lines
type Formatter struct {
	TimeLayout string
}

// NewFormatter creates a new formatter
func NewFormatter() *Formatter {
	return &Formatter{TimeLayout: "2006-01-02 15:04"}
}

// FormatSlot formats one line of the slot list
func (f *Formatter) FormatSlot(info types.SlotInfo) string {
	switch {
	case !info.Exists:
		return fmt.Sprintf("  %d. Empty slot - start a new game", info.Slot)
	case info.Corrupt():
		return fmt.Sprintf("  %d. Damaged save - %s", info.Slot, info.PlayTime)
	default:
		return fmt.Sprintf("  %d. Save %d - %s - chapter %d - %d choices - %s",
			info.Slot, info.Slot, info.PlayTime, info.CurrentChapter, info.ChoicesCount,
			info.LastModified.Format(f.TimeLayout))
	}
}

// SlotColor returns the display color for a slot line
func (f *Formatter) SlotColor(info types.SlotInfo) string {
	switch {
	case !info.Exists:
		return "gray"
	case info.Corrupt():
		return "red"
	default:
		return "white"
	}
}

// FormatCharacter formats a contact list entry
func (f *Formatter) FormatCharacter(index int, profile *types.CharacterProfile) string {
	status := "available"
	if profile.Discovered {
		status = "discovered"
	}
	return fmt.Sprintf("  %d. %s (%d kHz) - %s", index, profile.Name, profile.Frequency, status)
}

// FormatTransmission formats the greeting heard when tuning to a character
func (f *Formatter) FormatTransmission(profile *types.CharacterProfile) string {
	return fmt.Sprintf("[%s] %s: %s", profile.Callsign, profile.Name, profile.Description)
}

// FormatStatus formats the menu subtitle
func (f *Formatter) FormatStatus(frequency, chapter, slot int) string {
	parts := []string{
		fmt.Sprintf("%d kHz", frequency),
		fmt.Sprintf("chapter %d", chapter),
	}
	if slot > 0 {
		parts = append(parts, fmt.Sprintf("slot %d", slot))
	}
	return strings.Join(parts, " | ")
}

// FormatChoices formats a scene's numbered choices
func (f *Formatter) FormatChoices(choices []types.StoryChoice) []string {
	lines := make([]string, 0, len(choices))
	for i, choice := range choices {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, choice.Text))
	}
	return lines
}
