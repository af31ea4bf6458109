package navigation

import (
	"errors"

	"edgelogin/internal/registry"
)

// Transition-misuse errors. The caller dispatched an intent that is not valid
// in the current state; the state is left unchanged and the session goes on.
var (
	// ErrEndOfWorkflow is returned by ADVANCE or SKIP on the last scene.
	ErrEndOfWorkflow = errors.New("end of workflow")

	// ErrSkipNotAllowed is returned by SKIP on a scene without a skip affordance.
	ErrSkipNotAllowed = errors.New("skip not allowed")

	// ErrSessionEnded is returned by any intent after COMPLETE or EXIT.
	ErrSessionEnded = errors.New("session ended")
)

// Configuration errors, shared with the registry so errors.Is works across
// packages. They mean the registry and the screens disagree.
var (
	ErrUnknownWorkflow = registry.ErrUnknownWorkflow
	ErrIndexOutOfRange = registry.ErrIndexOutOfRange
	ErrUnknownSceneID  = registry.ErrUnknownSceneID
)

// IsMisuse reports whether err is a transition-misuse error. Such errors are
// logged and ignored.
func IsMisuse(err error) bool {
	return errors.Is(err, ErrEndOfWorkflow) ||
		errors.Is(err, ErrSkipNotAllowed) ||
		errors.Is(err, ErrSessionEnded)
}

// IsConfiguration reports whether err is a configuration error. Such errors
// are fatal for the session.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrUnknownWorkflow) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrUnknownSceneID)
}
