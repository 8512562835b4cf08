package story

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cliff-radio/internal/types"
)

func staticProvider(scenes ...*types.StoryScene) ContentProvider {
	return func() (map[string]*types.StoryScene, error) {
		out := make(map[string]*types.StoryScene, len(scenes))
		for _, scene := range scenes {
			out[scene.ID] = scene
		}
		return out, nil
	}
}

func TestNewContent(t *testing.T) {
	// Setup
	first := staticProvider(
		&types.StoryScene{ID: "start", Content: []string{"hello"}, Choices: []types.StoryChoice{{Text: "go", NextState: "chapter1_trapped"}}},
	)
	second := staticProvider(
		&types.StoryScene{ID: "chapter1_trapped", Content: []string{"stuck"}},
	)

	// Test case 1: Providers are merged
	content, err := NewContent(first, second)
	require.NoError(t, err)
	assert.Equal(t, 2, content.Len())
	assert.Equal(t, []string{"chapter1_trapped", "start"}, content.SceneIDs())

	scene, ok := content.GetScene("start")
	assert.True(t, ok)
	assert.Equal(t, "hello", scene.Content[0])

	// Test case 2: Missing scene is an absence
	_, ok = content.GetScene("chapter4_final_choice")
	assert.False(t, ok)
}

func TestNewContentDuplicateScene(t *testing.T) {
	first := staticProvider(&types.StoryScene{ID: "start"})
	second := staticProvider(&types.StoryScene{ID: "start"})

	_, err := NewContent(first, second)
	require.Error(t, err)

	var dup *DuplicateSceneError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "start", dup.SceneID)
	assert.Equal(t, 1, dup.FirstProvider)
	assert.Equal(t, 2, dup.LaterProvider)
}

func TestNewContentRejectsBadProviders(t *testing.T) {
	// Test case 1: Provider error is wrapped
	failing := func() (map[string]*types.StoryScene, error) {
		return nil, errors.New("disk on fire")
	}
	_, err := NewContent(failing)
	assert.ErrorContains(t, err, "disk on fire")

	// Test case 2: Key and id disagree
	mismatched := func() (map[string]*types.StoryScene, error) {
		return map[string]*types.StoryScene{"start": {ID: "other"}}, nil
	}
	_, err = NewContent(mismatched)
	assert.Error(t, err)

	// Test case 3: Nil scene
	empty := func() (map[string]*types.StoryScene, error) {
		return map[string]*types.StoryScene{"start": nil}, nil
	}
	_, err = NewContent(empty)
	assert.Error(t, err)
}

func TestDanglingReferences(t *testing.T) {
	content, err := NewContent(staticProvider(
		&types.StoryScene{ID: "start", Choices: []types.StoryChoice{
			{Text: "ok", NextState: "chapter1_trapped"},
			{Text: "nowhere", NextState: "chapter9_void"},
		}},
		&types.StoryScene{ID: "chapter1_trapped"},
	))
	require.NoError(t, err)

	refs := content.DanglingReferences()
	require.Len(t, refs, 1)
	assert.Equal(t, DanglingReference{SceneID: "start", ChoiceIndex: 1, Target: "chapter9_void"}, refs[0])
}

func TestContentChecks(t *testing.T) {
	// Setup
	content, err := NewContent(staticProvider(
		&types.StoryScene{ID: "start", Choices: []types.StoryChoice{{Text: "go", NextState: "chapter1_trapped"}}},
		&types.StoryScene{ID: "chapter1_trapped", Choices: []types.StoryChoice{{Text: "back", NextState: "start"}}},
		&types.StoryScene{ID: "side_room"},
	))
	require.NoError(t, err)

	// Test case 1: Unknown ids are reported
	assert.Equal(t, []string{"side_room"}, content.UnknownScenes())

	// Test case 2: Cycles terminate and orphans are unreachable
	assert.Equal(t, []string{"side_room"}, content.Unreachable())

	// Test case 3: Every other known state is missing
	missing := content.MissingStates()
	assert.Len(t, missing, len(types.AllStates())-2)
	assert.NotContains(t, missing, "start")
	assert.Contains(t, missing, "ending1_accept")
}

func TestDefaultContentIsComplete(t *testing.T) {
	content, err := DefaultContent()
	require.NoError(t, err)

	assert.Empty(t, content.MissingStates())
	assert.Empty(t, content.UnknownScenes())
	assert.Empty(t, content.Unreachable())
	assert.Empty(t, content.DanglingReferences())
}
