package registry

import (
	"errors"
	"testing"

	"edgelogin/internal/locale"
	"edgelogin/internal/manifest"
)

func TestLookupWorkflow(t *testing.T) {
	tests := []struct {
		name       string
		id         WorkflowID
		wantScenes int
		wantErr    error
	}{
		{name: "login has one scene", id: WorkflowLogin, wantScenes: 1},
		{name: "pin has one scene", id: WorkflowPin, wantScenes: 1},
		{name: "createAccount has five scenes", id: WorkflowCreateAccount, wantScenes: 5},
		{name: "recovery has two scenes", id: WorkflowRecovery, wantScenes: 2},
		{name: "resecure has three scenes", id: WorkflowResecure, wantScenes: 3},
		{name: "otp has one scene", id: WorkflowOTP, wantScenes: 1},
		{name: "unknown workflow", id: WorkflowID("nope"), wantErr: ErrUnknownWorkflow},
		{name: "exit is not a workflow", id: Exit, wantErr: ErrUnknownWorkflow},
		{name: "empty name", id: WorkflowID(""), wantErr: ErrUnknownWorkflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := LookupWorkflow(tt.id)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LookupWorkflow(%q) err = %v, want %v", tt.id, err, tt.wantErr)
				}
				if w != nil {
					t.Errorf("LookupWorkflow(%q) returned a workflow on error", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupWorkflow(%q) unexpected err: %v", tt.id, err)
			}
			if w.Len() != tt.wantScenes {
				t.Errorf("LookupWorkflow(%q) has %d scenes, want %d", tt.id, w.Len(), tt.wantScenes)
			}
		})
	}
}

func TestSceneAt(t *testing.T) {
	w, err := LookupWorkflow(WorkflowCreateAccount)
	if err != nil {
		t.Fatalf("LookupWorkflow: %v", err)
	}

	tests := []struct {
		index   int
		wantID  SceneID
		wantErr error
	}{
		{0, SceneNewAccountWelcome, nil},
		{1, SceneNewAccountUsername, nil},
		{4, SceneNewAccountReview, nil},
		{5, "", ErrIndexOutOfRange},
		{-1, "", ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		s, err := SceneAt(w, tt.index)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SceneAt(%d) err = %v, want %v", tt.index, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("SceneAt(%d) unexpected err: %v", tt.index, err)
			continue
		}
		if s.ID != tt.wantID {
			t.Errorf("SceneAt(%d) = %q, want %q", tt.index, s.ID, tt.wantID)
		}
	}
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors have messages", func(t *testing.T) {
		for _, err := range []error{ErrUnknownWorkflow, ErrIndexOutOfRange, ErrInvalidRegistry} {
			if err.Error() == "" {
				t.Errorf("%#v should have a non-empty message", err)
			}
		}
	})

	t.Run("sentinel errors are distinct", func(t *testing.T) {
		if errors.Is(ErrUnknownWorkflow, ErrIndexOutOfRange) {
			t.Error("ErrUnknownWorkflow and ErrIndexOutOfRange should be distinct errors")
		}
	})
}

func TestNewRegistry_Defaults(t *testing.T) {
	r := NewRegistry()

	if r.Entry() != WorkflowLogin {
		t.Errorf("Entry() = %q, want %q", r.Entry(), WorkflowLogin)
	}

	wantOrder := []WorkflowID{WorkflowLogin, WorkflowPin, WorkflowCreateAccount, WorkflowRecovery, WorkflowResecure, WorkflowOTP}
	got := r.Workflows()
	if len(got) != len(wantOrder) {
		t.Fatalf("Workflows() len = %d, want %d", len(got), len(wantOrder))
	}
	for i := range wantOrder {
		if got[i] != wantOrder[i] {
			t.Errorf("Workflows()[%d] = %q, want %q", i, got[i], wantOrder[i])
		}
	}

	backTargets := map[WorkflowID]WorkflowID{
		WorkflowLogin:         Exit,
		WorkflowPin:           WorkflowLogin,
		WorkflowCreateAccount: WorkflowLogin,
		WorkflowRecovery:      WorkflowLogin,
		WorkflowResecure:      WorkflowLogin,
		WorkflowOTP:           WorkflowLogin,
	}
	for id, want := range backTargets {
		got, err := r.BackTarget(id)
		if err != nil {
			t.Errorf("BackTarget(%q) unexpected err: %v", id, err)
			continue
		}
		if got != want {
			t.Errorf("BackTarget(%q) = %q, want %q", id, got, want)
		}
	}

	if _, err := r.BackTarget("nope"); !errors.Is(err, ErrUnknownWorkflow) {
		t.Errorf("BackTarget(nope) err = %v, want ErrUnknownWorkflow", err)
	}
}

func TestRegistry_Scene(t *testing.T) {
	r := NewRegistry()

	s, err := r.Scene(WorkflowResecure, 1)
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	if s.ID != SceneRecoverySetup || !s.ShowSkip || s.ShowBack {
		t.Errorf("Scene(resecure, 1) = %+v", s)
	}

	if _, err := r.Scene("nope", 0); !errors.Is(err, ErrUnknownWorkflow) {
		t.Errorf("Scene(nope, 0) err = %v, want ErrUnknownWorkflow", err)
	}
	if _, err := r.Scene(WorkflowLogin, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Scene(login, 1) err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestWorkflowHelpers(t *testing.T) {
	w, _ := LookupWorkflow(WorkflowResecure)

	if w.Last() != 2 {
		t.Errorf("Last() = %d, want 2", w.Last())
	}
	if got := w.IndexOf(SceneChangePin); got != 2 {
		t.Errorf("IndexOf(changePin) = %d, want 2", got)
	}
	if got := w.IndexOf(ScenePinLogin); got != -1 {
		t.Errorf("IndexOf(pinLogin) = %d, want -1", got)
	}
}

func TestNew_StructuralErrors(t *testing.T) {
	one := []SceneDescriptor{{ID: ScenePasswordLogin, Title: locale.KeyLoginButton}}

	tests := []struct {
		name      string
		entry     WorkflowID
		workflows []Workflow
	}{
		{name: "no workflows", entry: "a"},
		{name: "unnamed workflow", entry: "a", workflows: []Workflow{{Scenes: one, BackTarget: Exit}}},
		{name: "reserved name", entry: Exit, workflows: []Workflow{{ID: Exit, Scenes: one, BackTarget: Exit}}},
		{name: "empty scenes", entry: "a", workflows: []Workflow{{ID: "a", BackTarget: Exit}}},
		{name: "duplicate", entry: "a", workflows: []Workflow{
			{ID: "a", Scenes: one, BackTarget: Exit},
			{ID: "a", Scenes: one, BackTarget: Exit},
		}},
		{name: "unknown entry", entry: "b", workflows: []Workflow{{ID: "a", Scenes: one, BackTarget: Exit}}},
		{name: "missing back target", entry: "a", workflows: []Workflow{{ID: "a", Scenes: one}}},
		{name: "dangling back target", entry: "a", workflows: []Workflow{{ID: "a", Scenes: one, BackTarget: "zzz"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.entry, tt.workflows...)
			if !errors.Is(err, ErrInvalidRegistry) {
				t.Errorf("New() err = %v, want ErrInvalidRegistry", err)
			}
			if r != nil {
				t.Error("New() should not return a registry on error")
			}
		})
	}
}

func TestNew_CopiesScenes(t *testing.T) {
	scenes := []SceneDescriptor{{ID: ScenePasswordLogin, Title: locale.KeyLoginButton}}
	r, err := New("a", Workflow{ID: "a", Scenes: scenes, BackTarget: Exit})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	scenes[0].ID = ScenePinLogin

	s, _ := r.Scene("a", 0)
	if s.ID != ScenePasswordLogin {
		t.Errorf("registry should not alias caller slices, got %q", s.ID)
	}
}

func TestNewRegistryFromManifest(t *testing.T) {
	csv := `workflow,scene,title,subtitle,back,skip
login,passwordLogin,login_button,,false,false
pin,pinLogin,pin,,true,false
createAccount,newAccountWelcome,create_an_account,,true,false
createAccount,newAccountUsername,choose_title_username,username_desc,true,false
`
	m, err := manifest.ReadFromString(csv)
	if err != nil {
		t.Fatalf("Failed to parse manifest: %v", err)
	}
	nav, err := manifest.ReadNavigationFromBytes([]byte(`entry: pin
back_targets:
  login: exit
  pin: login
  createAccount: pin
`))
	if err != nil {
		t.Fatalf("Failed to parse navigation: %v", err)
	}

	r, err := NewRegistryFromManifest(m, nav)
	if err != nil {
		t.Fatalf("NewRegistryFromManifest: %v", err)
	}

	if r.Entry() != WorkflowPin {
		t.Errorf("Entry() = %q, want pin", r.Entry())
	}

	w, err := r.LookupWorkflow(WorkflowCreateAccount)
	if err != nil {
		t.Fatalf("LookupWorkflow: %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("createAccount has %d scenes, want 2", w.Len())
	}
	if w.BackTarget != WorkflowPin {
		t.Errorf("createAccount back target = %q, want pin", w.BackTarget)
	}
	if w.Scenes[1].SubTitle != locale.KeyUsernameDesc || !w.Scenes[1].ShowBack {
		t.Errorf("createAccount[1] = %+v", w.Scenes[1])
	}
}

func TestNewRegistryFromManifest_Errors(t *testing.T) {
	m, err := manifest.ReadFromString("workflow,scene,title\nlogin,passwordLogin,login_button\npin,pinLogin,pin\n")
	if err != nil {
		t.Fatalf("Failed to parse manifest: %v", err)
	}

	tests := []struct {
		name string
		nav  string
	}{
		{"workflow without back target", "entry: login\nback_targets:\n  login: exit\n"},
		{"navigation names unknown workflow", "entry: login\nback_targets:\n  login: exit\n  pin: login\n  otp: login\n"},
		{"entry not in manifest", "entry: otp\nback_targets:\n  login: exit\n  pin: login\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, err := manifest.ReadNavigationFromBytes([]byte(tt.nav))
			if err != nil {
				t.Fatalf("Failed to parse navigation: %v", err)
			}
			if _, err := NewRegistryFromManifest(m, nav); !errors.Is(err, ErrInvalidRegistry) {
				t.Errorf("err = %v, want ErrInvalidRegistry", err)
			}
		})
	}
}
