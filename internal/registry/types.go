package registry

import (
	"edgelogin/internal/locale"
)

// WorkflowID names a workflow (one user journey, e.g. "createAccount").
type WorkflowID string

// SceneID names a scene implementation the renderer knows how to mount.
type SceneID string

// Exit is the reserved back target meaning "BACK from the first scene ends
// the session". It can never be registered as a workflow.
const Exit WorkflowID = "exit"

// Built-in workflows.
const (
	WorkflowLogin         WorkflowID = "login"
	WorkflowPin           WorkflowID = "pin"
	WorkflowCreateAccount WorkflowID = "createAccount"
	WorkflowRecovery      WorkflowID = "recovery"
	WorkflowResecure      WorkflowID = "resecure"
	WorkflowOTP           WorkflowID = "otp"
)

// Built-in scenes.
const (
	ScenePasswordLogin      SceneID = "passwordLogin"
	ScenePinLogin           SceneID = "pinLogin"
	SceneNewAccountWelcome  SceneID = "newAccountWelcome"
	SceneNewAccountUsername SceneID = "newAccountUsername"
	SceneNewAccountPassword SceneID = "newAccountPassword"
	SceneNewAccountPin      SceneID = "newAccountPin"
	SceneNewAccountReview   SceneID = "newAccountReview"
	SceneRecoveryToken      SceneID = "recoveryToken"
	SceneRecoveryAnswers    SceneID = "recoveryAnswers"
	SceneChangePassword     SceneID = "changePassword"
	SceneRecoverySetup      SceneID = "recoverySetup"
	SceneChangePin          SceneID = "changePin"
	SceneOTPError           SceneID = "otpError"
)

// SceneDescriptor describes one scene of a workflow: which screen to mount
// and the chrome the header shows while it is current.
//
// Title and SubTitle are locale keys. An empty SubTitle means none.
type SceneDescriptor struct {
	// ID selects the screen implementation.
	ID SceneID

	// Title is the locale key of the header title.
	Title locale.Key

	// SubTitle is the optional locale key of the header subtitle.
	SubTitle locale.Key

	// ShowBack enables the back affordance.
	ShowBack bool

	// ShowSkip enables the skip affordance; SKIP is rejected otherwise.
	ShowSkip bool
}

// Workflow is a named, ordered, non-empty sequence of scenes.
type Workflow struct {
	// ID is the workflow name.
	ID WorkflowID

	// Scenes are visited in order; indices are offsets into this slice.
	Scenes []SceneDescriptor

	// BackTarget is where BACK leads from the first scene: another
	// registered workflow, or [Exit].
	BackTarget WorkflowID
}

// Len returns the number of scenes in the workflow.
func (w *Workflow) Len() int {
	return len(w.Scenes)
}

// Last returns the index of the final scene.
func (w *Workflow) Last() int {
	return len(w.Scenes) - 1
}

// IndexOf returns the index of the first scene with the given id, or -1.
func (w *Workflow) IndexOf(id SceneID) int {
	for i, s := range w.Scenes {
		if s.ID == id {
			return i
		}
	}
	return -1
}
