package story

import (
	"fmt"
	"sort"

	"github.com/user/cliff-radio/internal/types"
)

// ContentProvider yields the scenes of one chapter keyed by scene id
type ContentProvider func() (map[string]*types.StoryScene, error)

// DanglingReference is a choice whose target has no scene
type DanglingReference struct {
	SceneID     string
	ChoiceIndex int
	Target      string
}

// Content is the read-only scene graph
type Content struct {
	scenes map[string]*types.StoryScene
}

// NewContent merges the providers, in order, into a single scene graph.
// A scene id defined twice is rejected rather than overwritten.
func NewContent(providers ...ContentProvider) (*Content, error) {
	c := &Content{
		scenes: make(map[string]*types.StoryScene),
	}
	origin := make(map[string]int)

	for i, provider := range providers {
		scenes, err := provider()
		if err != nil {
			return nil, fmt.Errorf("failed to load content provider %d: %w", i+1, err)
		}

		// Iterate in key order so the reported duplicate is deterministic
		ids := make([]string, 0, len(scenes))
		for id := range scenes {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			scene := scenes[id]
			if scene == nil {
				return nil, fmt.Errorf("provider %d: scene %q is empty", i+1, id)
			}
			if scene.ID != id {
				return nil, fmt.Errorf("provider %d: scene keyed %q declares id %q", i+1, id, scene.ID)
			}
			if first, exists := origin[id]; exists {
				return nil, &DuplicateSceneError{SceneID: id, FirstProvider: first, LaterProvider: i + 1}
			}
			origin[id] = i + 1
			c.scenes[id] = scene
		}
	}

	return c, nil
}

// GetScene looks up a scene by id
func (c *Content) GetScene(id string) (*types.StoryScene, bool) {
	scene, exists := c.scenes[id]
	return scene, exists
}

// Len returns the number of scenes
func (c *Content) Len() int {
	return len(c.scenes)
}

// SceneIDs returns every scene id, sorted
func (c *Content) SceneIDs() []string {
	ids := make([]string, 0, len(c.scenes))
	for id := range c.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DanglingReferences lists choices pointing at scenes that do not exist
func (c *Content) DanglingReferences() []DanglingReference {
	var out []DanglingReference
	for _, id := range c.SceneIDs() {
		for i, choice := range c.scenes[id].Choices {
			if _, exists := c.scenes[choice.NextState]; !exists {
				out = append(out, DanglingReference{SceneID: id, ChoiceIndex: i, Target: choice.NextState})
			}
		}
	}
	return out
}

// MissingStates lists known story states that have no scene
func (c *Content) MissingStates() []string {
	var out []string
	for _, state := range types.AllStates() {
		if _, exists := c.scenes[state.String()]; !exists {
			out = append(out, state.String())
		}
	}
	return out
}

// UnknownScenes lists scenes whose id is not a known story state.
// They can be entered through choices but are never saved as valid progress.
func (c *Content) UnknownScenes() []string {
	var out []string
	for _, id := range c.SceneIDs() {
		if !types.StoryState(id).IsKnown() {
			out = append(out, id)
		}
	}
	return out
}

// Unreachable lists scenes that no path of choices leads to from the start
func (c *Content) Unreachable() []string {
	seen := map[string]bool{}
	queue := []string{types.StateStart.String()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true

		scene, exists := c.scenes[id]
		if !exists {
			continue
		}
		for _, choice := range scene.Choices {
			queue = append(queue, choice.NextState)
		}
	}

	var out []string
	for _, id := range c.SceneIDs() {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
