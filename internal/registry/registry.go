// Package registry provides the static scene registry.
//
// The registry maps workflow names to ordered lists of scene descriptors and
// declares, for every workflow, where BACK leads from its first scene. It is
// built once at startup and is read-only afterwards; the navigation
// controller and the header projection only ever look things up in it.
//
// A registry is built from the hardcoded defaults ([NewRegistry]) or from a
// scene manifest plus navigation file ([NewRegistryFromManifest]) so a host
// can reshape the journeys without recompiling.
//
// Key types:
//   - [Registry] - Workflow table with entry workflow and back targets
//   - [Workflow] - A named, ordered list of scenes
//   - [SceneDescriptor] - Chrome metadata and screen id for one scene
//
// Package-level functions [LookupWorkflow] and [SceneAt] use the default
// registry.
package registry

import (
	"errors"
	"fmt"

	"edgelogin/internal/locale"
	"edgelogin/internal/manifest"
)

// Sentinel errors for registry lookups and construction.
var (
	// ErrUnknownWorkflow indicates a workflow name that is not registered.
	// With a consistent registry this is a wiring bug, not a runtime case.
	ErrUnknownWorkflow = errors.New("unknown workflow")

	// ErrIndexOutOfRange indicates a scene index outside [0, len(scenes)).
	ErrIndexOutOfRange = errors.New("scene index out of range")

	// ErrInvalidRegistry indicates a structurally broken workflow table.
	ErrInvalidRegistry = errors.New("invalid registry")

	// ErrUnknownSceneID indicates a scene id no screen is registered for.
	ErrUnknownSceneID = errors.New("unknown scene id")
)

// Registry is an immutable workflow table.
//
// Create with [NewRegistry] for the built-in journeys, [New] for a custom
// table, or [NewRegistryFromManifest] for manifest-driven tables.
type Registry struct {
	// entry is the workflow new sessions start in.
	entry WorkflowID

	// order preserves declaration order for listing.
	order []WorkflowID

	// workflows maps name -> workflow.
	workflows map[WorkflowID]*Workflow
}

// New builds a registry from workflows after checking its structure: at
// least one workflow, unique non-reserved names, non-empty scene lists, an
// entry that is registered and back targets that are registered or [Exit].
func New(entry WorkflowID, workflows ...Workflow) (*Registry, error) {
	if len(workflows) == 0 {
		return nil, fmt.Errorf("%w: no workflows", ErrInvalidRegistry)
	}

	r := &Registry{
		entry:     entry,
		workflows: make(map[WorkflowID]*Workflow, len(workflows)),
	}

	for i := range workflows {
		w := workflows[i]
		switch {
		case w.ID == "":
			return nil, fmt.Errorf("%w: workflow %d has no name", ErrInvalidRegistry, i)
		case w.ID == Exit:
			return nil, fmt.Errorf("%w: %q is reserved", ErrInvalidRegistry, Exit)
		case len(w.Scenes) == 0:
			return nil, fmt.Errorf("%w: workflow %q has no scenes", ErrInvalidRegistry, w.ID)
		}
		if _, dup := r.workflows[w.ID]; dup {
			return nil, fmt.Errorf("%w: workflow %q declared twice", ErrInvalidRegistry, w.ID)
		}

		scenes := make([]SceneDescriptor, len(w.Scenes))
		copy(scenes, w.Scenes)
		w.Scenes = scenes

		r.workflows[w.ID] = &w
		r.order = append(r.order, w.ID)
	}

	if _, ok := r.workflows[entry]; !ok {
		return nil, fmt.Errorf("%w: entry %q: %w", ErrInvalidRegistry, entry, ErrUnknownWorkflow)
	}

	for _, id := range r.order {
		target := r.workflows[id].BackTarget
		if target == Exit {
			continue
		}
		if target == "" {
			return nil, fmt.Errorf("%w: workflow %q has no back target", ErrInvalidRegistry, id)
		}
		if _, ok := r.workflows[target]; !ok {
			return nil, fmt.Errorf("%w: workflow %q backs to %q: %w", ErrInvalidRegistry, id, target, ErrUnknownWorkflow)
		}
	}

	return r, nil
}

// NewRegistry creates a [Registry] with the built-in journeys.
//
// The entry workflow is login. Back targets are:
//   - login -> exit
//   - pin, createAccount, recovery, resecure, otp -> login
func NewRegistry() *Registry {
	r, err := New(WorkflowLogin, defaultWorkflows()...)
	if err != nil {
		panic(fmt.Sprintf("registry: built-in table is invalid: %v", err))
	}
	return r
}

func defaultWorkflows() []Workflow {
	return []Workflow{
		{
			ID:         WorkflowLogin,
			BackTarget: Exit,
			Scenes: []SceneDescriptor{
				{ID: ScenePasswordLogin, Title: locale.KeyLoginButton},
			},
		},
		{
			ID:         WorkflowPin,
			BackTarget: WorkflowLogin,
			Scenes: []SceneDescriptor{
				{ID: ScenePinLogin, Title: locale.KeyPin, ShowBack: true},
			},
		},
		{
			ID:         WorkflowCreateAccount,
			BackTarget: WorkflowLogin,
			Scenes: []SceneDescriptor{
				{ID: SceneNewAccountWelcome, Title: locale.KeyCreateAnAccount, ShowBack: true},
				{ID: SceneNewAccountUsername, Title: locale.KeyChooseTitleUsername, SubTitle: locale.KeyUsernameDesc, ShowBack: true},
				{ID: SceneNewAccountPassword, Title: locale.KeyChooseTitlePassword, SubTitle: locale.KeyPasswordDesc, ShowBack: true},
				{ID: SceneNewAccountPin, Title: locale.KeyChooseTitlePin, SubTitle: locale.KeyPinDesc, ShowBack: true},
				{ID: SceneNewAccountReview, Title: locale.KeyAccountConfirmation, SubTitle: locale.KeyAlmostDone},
			},
		},
		{
			ID:         WorkflowRecovery,
			BackTarget: WorkflowLogin,
			Scenes: []SceneDescriptor{
				{ID: SceneRecoveryToken, Title: locale.KeyPasswordRecovery, SubTitle: locale.KeyRecoverByUsername, ShowBack: true},
				{ID: SceneRecoveryAnswers, Title: locale.KeyRecoveryQuestionsHdr, SubTitle: locale.KeyAnswerCaseSensitive, ShowBack: true},
			},
		},
		{
			ID:         WorkflowResecure,
			BackTarget: WorkflowLogin,
			Scenes: []SceneDescriptor{
				{ID: SceneChangePassword, Title: locale.KeyChangePassword, SubTitle: locale.KeyRecoverySuccessful, ShowSkip: true},
				{ID: SceneRecoverySetup, Title: locale.KeyPasswordRecovery, SubTitle: locale.KeyChooseRecoveryQ, ShowSkip: true},
				{ID: SceneChangePin, Title: locale.KeyChangePin, SubTitle: locale.KeyPinDesc, ShowSkip: true},
			},
		},
		{
			ID:         WorkflowOTP,
			BackTarget: WorkflowLogin,
			Scenes: []SceneDescriptor{
				{ID: SceneOTPError, Title: locale.KeyOTPHeader, SubTitle: locale.KeyOTPSceneHeader2FA, ShowBack: true},
			},
		},
	}
}

// NewRegistryFromManifest creates a [Registry] from a scene manifest and a
// navigation file.
//
// Workflow order and scene order follow the manifest rows. Every workflow in
// the manifest must have a back target in nav; targets may name another
// manifest workflow or "exit".
func NewRegistryFromManifest(m *manifest.Manifest, nav *manifest.Navigation) (*Registry, error) {
	var workflows []Workflow
	for _, name := range m.Workflows() {
		target, ok := nav.BackTarget(name)
		if !ok {
			return nil, fmt.Errorf("%w: workflow %q has no back target in navigation manifest", ErrInvalidRegistry, name)
		}

		w := Workflow{ID: WorkflowID(name), BackTarget: WorkflowID(target)}
		for _, e := range m.ScenesFor(name) {
			w.Scenes = append(w.Scenes, SceneDescriptor{
				ID:       SceneID(e.Scene),
				Title:    locale.Key(e.Title),
				SubTitle: locale.Key(e.SubTitle),
				ShowBack: e.Back,
				ShowSkip: e.Skip,
			})
		}
		workflows = append(workflows, w)
	}

	for _, source := range nav.Sources() {
		if !m.HasWorkflow(source) {
			return nil, fmt.Errorf("%w: navigation manifest names %q: %w", ErrInvalidRegistry, source, ErrUnknownWorkflow)
		}
	}

	return New(WorkflowID(nav.Entry), workflows...)
}

// Entry returns the workflow new sessions start in.
func (r *Registry) Entry() WorkflowID {
	return r.entry
}

// Workflows returns the registered workflow names in declaration order.
func (r *Registry) Workflows() []WorkflowID {
	out := make([]WorkflowID, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether id is a registered workflow.
func (r *Registry) Has(id WorkflowID) bool {
	_, ok := r.workflows[id]
	return ok
}

// LookupWorkflow returns the workflow registered under id.
//
// Returns [ErrUnknownWorkflow] if id is not registered. The returned value is
// shared and must not be modified.
func (r *Registry) LookupWorkflow(id WorkflowID) (*Workflow, error) {
	w, ok := r.workflows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflow, id)
	}
	return w, nil
}

// BackTarget returns where BACK leads from the first scene of id.
func (r *Registry) BackTarget(id WorkflowID) (WorkflowID, error) {
	w, err := r.LookupWorkflow(id)
	if err != nil {
		return "", err
	}
	return w.BackTarget, nil
}

// Scene looks up the descriptor at index within workflow id.
func (r *Registry) Scene(id WorkflowID, index int) (SceneDescriptor, error) {
	w, err := r.LookupWorkflow(id)
	if err != nil {
		return SceneDescriptor{}, err
	}
	return SceneAt(w, index)
}

// SceneAt returns the descriptor at index within w.
//
// Returns [ErrIndexOutOfRange] if index is outside [0, len(w.Scenes)).
func SceneAt(w *Workflow, index int) (SceneDescriptor, error) {
	if index < 0 || index >= len(w.Scenes) {
		return SceneDescriptor{}, fmt.Errorf("%w: %q has %d scenes, got index %d", ErrIndexOutOfRange, w.ID, len(w.Scenes), index)
	}
	return w.Scenes[index], nil
}

// defaultRegistry is the package-level registry holding the built-in journeys.
var defaultRegistry = NewRegistry()

// Default returns the package-level registry of built-in journeys.
func Default() *Registry {
	return defaultRegistry
}

// LookupWorkflow returns a built-in workflow by name.
//
// This package-level function uses the default registry. For manifest-driven
// tables, create a [Registry] with [NewRegistryFromManifest].
func LookupWorkflow(id WorkflowID) (*Workflow, error) {
	return defaultRegistry.LookupWorkflow(id)
}
