package story

import (
	"strings"

	"github.com/user/cliff-radio/internal/types"
)

// HomeFrequency is the frequency the cabin radio starts on
const HomeFrequency = 14250

var characterColors = map[string]string{
	"main_self":       "cyan",
	"successful_self": "green",
	"loved_self":      "purple",
	"ordinary_self":   "gray",
	"female_self":     "yellow",
	"mysterious_man":  "red",
}

var chapterCharacters = map[int][]string{
	1: {"main_self"},
	2: {"successful_self", "loved_self", "ordinary_self", "female_self"},
	3: {"successful_self", "loved_self", "ordinary_self"},
	4: {"mysterious_man", "main_self"},
}

// characterCatalog is the fixed cast, in display order
var characterCatalog = []types.CharacterProfile{
	{
		CharacterID: "main_self",
		Name:        "You",
		Description: "The narrator, trapped in the cabin on the cliff",
		Personality: "Confused and afraid, but curious",
		Background:  "An ordinary person who was caught by the storm during an evening walk by the sea",
		VoiceStyle:  "Calm, with an edge of tension",
		Frequency:   14250,
	},
	{
		CharacterID: "successful_self",
		Name:        "Successful You",
		Description: "A version of you with a career and no one to share it with",
		Personality: "Confident but exhausted",
		Background:  "The self who chose work over family",
		VoiceStyle:  "Tired and low",
		Frequency:   14251,
	},
	{
		CharacterID: "loved_self",
		Name:        "Beloved You",
		Description: "A version of you who found a perfect love",
		Personality: "Gentle but full of regret",
		Background:  "The self who chose love and gave up the dream",
		VoiceStyle:  "Soft and melancholic",
		Frequency:   14252,
	},
	{
		CharacterID: "ordinary_self",
		Name:        "Ordinary You",
		Description: "A version of you living a quiet, uneventful life",
		Personality: "Calm but hollow",
		Background:  "The self who avoided every risk",
		VoiceStyle:  "Flat and lost",
		Frequency:   14253,
	},
	{
		CharacterID: "female_self",
		Name:        "The Other You",
		Description: "You, as you would have been born a woman",
		Personality: "Sharp and resilient",
		Background:  "A parallel-world version of you",
		VoiceStyle:  "Clear and firm",
		Frequency:   14254,
	},
	{
		CharacterID: "mysterious_man",
		Name:        "The Stranger",
		Description: "A dark-skinned man who appears at the edge of every broadcast",
		Personality: "Enigmatic and teasing",
		Background:  "A guide who seems to know the whole truth",
		VoiceStyle:  "Deep and magnetic",
		Frequency:   14255,
	},
}

// CharacterRegistry holds the cast and their mutable trust and discovery state
type CharacterRegistry struct {
	characters map[string]*types.CharacterProfile
	order      []string
}

// NewCharacterRegistry creates a registry populated with the fixed cast
func NewCharacterRegistry() *CharacterRegistry {
	cr := &CharacterRegistry{
		characters: make(map[string]*types.CharacterProfile, len(characterCatalog)),
		order:      make([]string, 0, len(characterCatalog)),
	}

	for _, entry := range characterCatalog {
		profile := entry
		profile.Callsign = strings.ToUpper(profile.CharacterID)
		profile.Color = characterColor(profile.CharacterID)
		profile.TrustLevel = 0
		profile.Available = true
		profile.Discovered = false

		cr.characters[profile.CharacterID] = &profile
		cr.order = append(cr.order, profile.CharacterID)
	}

	return cr
}

func characterColor(characterID string) string {
	if color, ok := characterColors[characterID]; ok {
		return color
	}
	return "white"
}

// Get returns the profile for id
func (cr *CharacterRegistry) Get(id string) (*types.CharacterProfile, bool) {
	profile, exists := cr.characters[id]
	return profile, exists
}

// All returns every profile in catalog order
func (cr *CharacterRegistry) All() []*types.CharacterProfile {
	out := make([]*types.CharacterProfile, 0, len(cr.order))
	for _, id := range cr.order {
		out = append(out, cr.characters[id])
	}
	return out
}

// Available returns the profiles currently marked available
func (cr *CharacterRegistry) Available() []*types.CharacterProfile {
	var out []*types.CharacterProfile
	for _, id := range cr.order {
		if profile := cr.characters[id]; profile.Available {
			out = append(out, profile)
		}
	}
	return out
}

// ListByChapter returns the characters appearing in a chapter, in story order.
// Unknown chapters yield an empty slice.
func (cr *CharacterRegistry) ListByChapter(chapter int) []*types.CharacterProfile {
	ids := chapterCharacters[chapter]
	out := make([]*types.CharacterProfile, 0, len(ids))
	for _, id := range ids {
		if profile, exists := cr.characters[id]; exists {
			out = append(out, profile)
		}
	}
	return out
}

// FindByFrequency returns the character broadcasting on freq
func (cr *CharacterRegistry) FindByFrequency(freq int) (*types.CharacterProfile, bool) {
	for _, id := range cr.order {
		if profile := cr.characters[id]; profile.Frequency == freq {
			return profile, true
		}
	}
	return nil, false
}

// ApplyTrustDelta adds delta to a character's trust level. Trust is unbounded.
func (cr *CharacterRegistry) ApplyTrustDelta(id string, delta int) {
	if profile, exists := cr.characters[id]; exists {
		profile.TrustLevel += delta
	}
}

// MarkDiscovered flags a character as discovered
func (cr *CharacterRegistry) MarkDiscovered(id string) {
	if profile, exists := cr.characters[id]; exists {
		profile.Discovered = true
	}
}

// Snapshot returns copies of every profile keyed by id
func (cr *CharacterRegistry) Snapshot() map[string]*types.CharacterProfile {
	out := make(map[string]*types.CharacterProfile, len(cr.characters))
	for id, profile := range cr.characters {
		copied := *profile
		out[id] = &copied
	}
	return out
}

// Restore copies the mutable fields of saved profiles onto the registry.
// Ids that are not part of the cast are ignored.
func (cr *CharacterRegistry) Restore(saved map[string]*types.CharacterProfile) {
	for id, state := range saved {
		profile, exists := cr.characters[id]
		if !exists || state == nil {
			continue
		}
		profile.TrustLevel = state.TrustLevel
		profile.Available = state.Available
		profile.Discovered = state.Discovered
	}
}
