// Package navigation owns the workflow state and applies navigation intents.
//
// The [Controller] holds exactly one [State]: the current workflow and the
// index of the visible scene in it. Intents are applied atomically. The next
// state is computed in full against the registry, and only committed when
// that succeeds, so a failed intent never leaves a partial update behind.
//
// Key concepts:
//   - Every committed transition bumps a generation counter. Screens capture
//     a [Ticket] before starting slow work and check [Controller.IsCurrent]
//     when the result arrives, dropping results for scenes the user left.
//   - COMPLETE and EXIT are terminal. The [Outcome] is delivered once to the
//     [CompletionFunc] and every later intent fails with [ErrSessionEnded].
//   - BACK from scene 0 follows the workflow's declared back target; a target
//     of [registry.Exit] ends the session like EXIT.
package navigation

import (
	"fmt"

	"edgelogin/internal/registry"
	"edgelogin/internal/session"
)

// State is the current position in the registry.
type State struct {
	Workflow   registry.WorkflowID
	SceneIndex int
}

func (s State) String() string {
	return fmt.Sprintf("%s[%d]", s.Workflow, s.SceneIndex)
}

// OutcomeKind says how a session ended.
type OutcomeKind int

const (
	// OutcomeComplete means the user is logged in.
	OutcomeComplete OutcomeKind = iota + 1
	// OutcomeExit means the user left without logging in.
	OutcomeExit
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeComplete:
		return "complete"
	case OutcomeExit:
		return "exit"
	default:
		return "none"
	}
}

// Outcome is delivered to the host when the session ends.
type Outcome struct {
	Kind OutcomeKind

	// Session is set for OutcomeComplete.
	Session *session.Session
}

// Ticket identifies the state a piece of asynchronous work was started in.
type Ticket struct {
	Generation uint64
	State      State
}

// CompletionFunc receives the session outcome. It is called exactly once.
type CompletionFunc func(Outcome)

// TransitionFunc observes committed transitions.
//
// For terminal intents, to equals from.
type TransitionFunc func(from, to State, intent Intent)

// Controller applies intents to the workflow state.
//
// A Controller has a single writer: the UI event loop. It holds no locks.
type Controller struct {
	reg          *registry.Registry
	state        State
	generation   uint64
	outcome      *Outcome
	onComplete   CompletionFunc
	onTransition TransitionFunc
}

// NewController creates a Controller positioned at scene 0 of the registry's
// entry workflow.
func NewController(reg *registry.Registry) *Controller {
	return &Controller{
		reg:   reg,
		state: State{Workflow: reg.Entry()},
	}
}

// NewControllerAt creates a Controller positioned at scene 0 of start.
//
// Returns [ErrUnknownWorkflow] if start is not registered.
func NewControllerAt(reg *registry.Registry, start registry.WorkflowID) (*Controller, error) {
	if !reg.Has(start) {
		return nil, fmt.Errorf("start workflow %q: %w", start, ErrUnknownWorkflow)
	}
	return &Controller{
		reg:   reg,
		state: State{Workflow: start},
	}, nil
}

// SetCompletion configures the callback that receives the session outcome.
func (c *Controller) SetCompletion(fn CompletionFunc) {
	c.onComplete = fn
}

// SetTransitionObserver configures an optional observer of committed
// transitions, typically used for logging.
func (c *Controller) SetTransitionObserver(fn TransitionFunc) {
	c.onTransition = fn
}

// Registry returns the registry the controller navigates.
func (c *Controller) Registry() *registry.Registry {
	return c.reg
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Scene returns the descriptor of the visible scene.
func (c *Controller) Scene() (registry.SceneDescriptor, error) {
	return c.reg.Scene(c.state.Workflow, c.state.SceneIndex)
}

// Generation returns the number of transitions committed so far.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Ticket captures the current generation and state.
func (c *Controller) Ticket() Ticket {
	return Ticket{Generation: c.generation, State: c.state}
}

// IsCurrent reports whether no transition has happened since t was taken.
// It is always false once the session has ended.
func (c *Controller) IsCurrent(t Ticket) bool {
	return c.outcome == nil && t.Generation == c.generation
}

// Ended reports whether a terminal intent has been applied.
func (c *Controller) Ended() bool {
	return c.outcome != nil
}

// Outcome returns the session outcome once the session has ended.
func (c *Controller) Outcome() (Outcome, bool) {
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

// Dispatch applies intent.
//
// On error the state is unchanged. Misuse errors ([IsMisuse]) can be logged
// and ignored; configuration errors ([IsConfiguration]) mean the registry and
// its callers disagree.
func (c *Controller) Dispatch(intent Intent) error {
	if c.outcome != nil {
		return fmt.Errorf("%s: %w", intent, ErrSessionEnded)
	}

	next, outcome, err := c.next(intent)
	if err != nil {
		return fmt.Errorf("%s at %s: %w", intent, c.state, err)
	}

	from := c.state
	c.generation++
	if outcome != nil {
		c.outcome = outcome
		c.notify(from, from, intent)
		if c.onComplete != nil {
			c.onComplete(*outcome)
		}
		return nil
	}

	c.state = next
	c.notify(from, next, intent)
	return nil
}

func (c *Controller) notify(from, to State, intent Intent) {
	if c.onTransition != nil {
		c.onTransition(from, to, intent)
	}
}

// next computes the state after intent without modifying c.
func (c *Controller) next(intent Intent) (State, *Outcome, error) {
	cur := c.state
	w, err := c.reg.LookupWorkflow(cur.Workflow)
	if err != nil {
		return cur, nil, err
	}

	switch intent.Kind {
	case KindAdvance:
		return advance(w, cur)

	case KindSkip:
		scene, err := registry.SceneAt(w, cur.SceneIndex)
		if err != nil {
			return cur, nil, err
		}
		if !scene.ShowSkip {
			return cur, nil, ErrSkipNotAllowed
		}
		return advance(w, cur)

	case KindBack:
		if cur.SceneIndex > 0 {
			return State{Workflow: cur.Workflow, SceneIndex: cur.SceneIndex - 1}, nil, nil
		}
		if w.BackTarget == registry.Exit {
			return cur, &Outcome{Kind: OutcomeExit}, nil
		}
		if !c.reg.Has(w.BackTarget) {
			return cur, nil, fmt.Errorf("back target %q: %w", w.BackTarget, ErrUnknownWorkflow)
		}
		return State{Workflow: w.BackTarget}, nil, nil

	case KindSwitch:
		if !c.reg.Has(intent.Target) {
			return cur, nil, fmt.Errorf("%q: %w", intent.Target, ErrUnknownWorkflow)
		}
		return State{Workflow: intent.Target}, nil, nil

	case KindJump:
		if _, err := registry.SceneAt(w, intent.Index); err != nil {
			return cur, nil, err
		}
		return State{Workflow: cur.Workflow, SceneIndex: intent.Index}, nil, nil

	case KindComplete:
		return cur, &Outcome{Kind: OutcomeComplete, Session: intent.Session}, nil

	case KindExit:
		return cur, &Outcome{Kind: OutcomeExit}, nil

	default:
		return cur, nil, fmt.Errorf("unknown intent kind %d", int(intent.Kind))
	}
}

func advance(w *registry.Workflow, cur State) (State, *Outcome, error) {
	if cur.SceneIndex+1 >= w.Len() {
		return cur, nil, ErrEndOfWorkflow
	}
	return State{Workflow: cur.Workflow, SceneIndex: cur.SceneIndex + 1}, nil, nil
}
