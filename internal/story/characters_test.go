package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cliff-radio/internal/types"
)

func TestNewCharacterRegistry(t *testing.T) {
	registry := NewCharacterRegistry()

	all := registry.All()
	require.Len(t, all, 6)

	// Catalog order and frequencies
	expected := []string{"main_self", "successful_self", "loved_self", "ordinary_self", "female_self", "mysterious_man"}
	for i, id := range expected {
		assert.Equal(t, id, all[i].CharacterID)
		assert.Equal(t, HomeFrequency+i, all[i].Frequency)
		assert.Equal(t, 0, all[i].TrustLevel)
		assert.True(t, all[i].Available)
		assert.False(t, all[i].Discovered)
	}

	// Derived fields
	mainSelf, ok := registry.Get("main_self")
	require.True(t, ok)
	assert.Equal(t, "MAIN_SELF", mainSelf.Callsign)
	assert.Equal(t, "cyan", mainSelf.Color)

	stranger, ok := registry.Get("mysterious_man")
	require.True(t, ok)
	assert.Equal(t, "red", stranger.Color)
}

func TestCharacterRegistryGet(t *testing.T) {
	registry := NewCharacterRegistry()

	// Test case 1: Known character
	profile, ok := registry.Get("loved_self")
	assert.True(t, ok)
	assert.Equal(t, "Beloved You", profile.Name)

	// Test case 2: Unknown character is an absence, not an error
	profile, ok = registry.Get("nobody")
	assert.False(t, ok)
	assert.Nil(t, profile)
}

func TestListByChapter(t *testing.T) {
	registry := NewCharacterRegistry()

	ids := func(profiles []*types.CharacterProfile) []string {
		out := make([]string, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, p.CharacterID)
		}
		return out
	}

	assert.Equal(t, []string{"main_self"}, ids(registry.ListByChapter(1)))
	assert.Equal(t, []string{"successful_self", "loved_self", "ordinary_self", "female_self"}, ids(registry.ListByChapter(2)))
	assert.Equal(t, []string{"successful_self", "loved_self", "ordinary_self"}, ids(registry.ListByChapter(3)))
	assert.Equal(t, []string{"mysterious_man", "main_self"}, ids(registry.ListByChapter(4)))

	// Unknown chapters yield nothing
	assert.Empty(t, registry.ListByChapter(0))
	assert.Empty(t, registry.ListByChapter(99))
}

func TestApplyTrustDelta(t *testing.T) {
	registry := NewCharacterRegistry()

	// Test case 1: Deltas accumulate without clamping
	registry.ApplyTrustDelta("female_self", 3)
	registry.ApplyTrustDelta("female_self", -10)
	profile, _ := registry.Get("female_self")
	assert.Equal(t, -7, profile.TrustLevel)

	// Test case 2: Unknown id is a silent no-op
	assert.NotPanics(t, func() { registry.ApplyTrustDelta("ghost", 5) })
	_, ok := registry.Get("ghost")
	assert.False(t, ok)
}

func TestMarkDiscovered(t *testing.T) {
	registry := NewCharacterRegistry()

	registry.MarkDiscovered("ordinary_self")
	registry.MarkDiscovered("ordinary_self")
	registry.MarkDiscovered("ghost")

	profile, _ := registry.Get("ordinary_self")
	assert.True(t, profile.Discovered)

	other, _ := registry.Get("loved_self")
	assert.False(t, other.Discovered)
}

func TestFindByFrequency(t *testing.T) {
	registry := NewCharacterRegistry()

	profile, ok := registry.FindByFrequency(14254)
	require.True(t, ok)
	assert.Equal(t, "female_self", profile.CharacterID)

	_, ok = registry.FindByFrequency(9999)
	assert.False(t, ok)
}

func TestSnapshotRestore(t *testing.T) {
	// Setup
	registry := NewCharacterRegistry()
	registry.ApplyTrustDelta("main_self", 2)
	registry.MarkDiscovered("main_self")

	snapshot := registry.Snapshot()

	// Test case 1: Snapshot is detached from the registry
	snapshot["main_self"].TrustLevel = 100
	profile, _ := registry.Get("main_self")
	assert.Equal(t, 2, profile.TrustLevel)

	// Test case 2: Restore copies mutable fields only
	snapshot["main_self"].Name = "Changed"
	snapshot["loved_self"].Available = false
	snapshot["intruder"] = &types.CharacterProfile{CharacterID: "intruder", TrustLevel: 1}

	restored := NewCharacterRegistry()
	restored.Restore(snapshot)

	mainSelf, _ := restored.Get("main_self")
	assert.Equal(t, 100, mainSelf.TrustLevel)
	assert.True(t, mainSelf.Discovered)
	assert.Equal(t, "You", mainSelf.Name)

	lovedSelf, _ := restored.Get("loved_self")
	assert.False(t, lovedSelf.Available)
	assert.Len(t, restored.Available(), 5)

	_, ok := restored.Get("intruder")
	assert.False(t, ok)
}
