package story

import (
	"errors"
	"fmt"
)

// ErrUnknownState is returned when a state outside the known set is assigned explicitly
var ErrUnknownState = errors.New("unknown story state")

// ContentIntegrityError reports a current state that resolves to no scene
type ContentIntegrityError struct {
	State  string
	Reason string
}

func (e *ContentIntegrityError) Error() string {
	return fmt.Sprintf("content integrity: state %q %s", e.State, e.Reason)
}

// DuplicateSceneError reports a scene id defined by more than one content provider
type DuplicateSceneError struct {
	SceneID       string
	FirstProvider int
	LaterProvider int
}

func (e *DuplicateSceneError) Error() string {
	return fmt.Sprintf("scene %q defined by provider %d and again by provider %d",
		e.SceneID, e.FirstProvider, e.LaterProvider)
}
