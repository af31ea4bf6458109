package navigation

import (
	"fmt"

	"edgelogin/internal/registry"
	"edgelogin/internal/session"
)

// Kind identifies a navigation intent.
type Kind int

const (
	// KindAdvance moves to the next scene of the current workflow.
	KindAdvance Kind = iota
	// KindBack moves to the previous scene, or to the back target from scene 0.
	KindBack
	// KindSkip behaves like KindAdvance on scenes that allow skipping.
	KindSkip
	// KindSwitch enters another workflow at scene 0.
	KindSwitch
	// KindJump moves to an index within the current workflow.
	KindJump
	// KindComplete ends the session successfully.
	KindComplete
	// KindExit ends the session without an account.
	KindExit
)

var kindNames = [...]string{
	KindAdvance:  "ADVANCE",
	KindBack:     "BACK",
	KindSkip:     "SKIP",
	KindSwitch:   "SWITCH_WORKFLOW",
	KindJump:     "JUMP",
	KindComplete: "COMPLETE",
	KindExit:     "EXIT",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Intent is a navigation request dispatched to a [Controller].
//
// Build intents with the constructor functions rather than literals.
type Intent struct {
	Kind Kind

	// Target is the workflow for KindSwitch.
	Target registry.WorkflowID

	// Index is the scene index for KindJump.
	Index int

	// Session is the authenticated account for KindComplete.
	Session *session.Session
}

// Terminal reports whether the intent ends the session.
func (i Intent) Terminal() bool {
	return i.Kind == KindComplete || i.Kind == KindExit
}

func (i Intent) String() string {
	switch i.Kind {
	case KindSwitch:
		return fmt.Sprintf("%s(%s)", i.Kind, i.Target)
	case KindJump:
		return fmt.Sprintf("%s(%d)", i.Kind, i.Index)
	default:
		return i.Kind.String()
	}
}

func Advance() Intent { return Intent{Kind: KindAdvance} }

func Back() Intent { return Intent{Kind: KindBack} }

func Skip() Intent { return Intent{Kind: KindSkip} }

func SwitchTo(target registry.WorkflowID) Intent {
	return Intent{Kind: KindSwitch, Target: target}
}

func JumpTo(index int) Intent { return Intent{Kind: KindJump, Index: index} }

func Complete(s *session.Session) Intent {
	return Intent{Kind: KindComplete, Session: s}
}

func Exit() Intent { return Intent{Kind: KindExit} }
