package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgelogin/internal/locale"
	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
)

func TestProject(t *testing.T) {
	reg := registry.NewRegistry()
	cat := locale.NewCatalog("en-US")

	tests := []struct {
		name  string
		state navigation.State
		want  Chrome
	}{
		{
			name:  "login has no affordances",
			state: navigation.State{Workflow: registry.WorkflowLogin},
			want:  Chrome{Title: "Login"},
		},
		{
			name:  "pin shows back",
			state: navigation.State{Workflow: registry.WorkflowPin},
			want:  Chrome{Title: "PIN", ShowBack: true},
		},
		{
			name:  "username subtitle gets the app name",
			state: navigation.State{Workflow: registry.WorkflowCreateAccount, SceneIndex: 1},
			want: Chrome{
				Title:    "Choose Username",
				SubTitle: "Your username will be required to sign in to your Edge account on this and other devices.",
				ShowBack: true,
			},
		},
		{
			name:  "resecure shows skip only",
			state: navigation.State{Workflow: registry.WorkflowResecure},
			want: Chrome{
				Title:    "Change Password",
				SubTitle: "Recovery successful! Please change your password and PIN.",
				ShowSkip: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(reg, tt.state, cat, "Edge")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject_IsPure(t *testing.T) {
	reg := registry.NewRegistry()
	cat := locale.NewCatalog()

	for _, id := range reg.Workflows() {
		w, err := reg.LookupWorkflow(id)
		require.NoError(t, err)
		for i := range w.Scenes {
			state := navigation.State{Workflow: id, SceneIndex: i}
			first, err := Project(reg, state, cat, "Edge")
			require.NoError(t, err)
			second, err := Project(reg, state, cat, "Edge")
			require.NoError(t, err)
			assert.Equal(t, first, second, "%s", state)
			assert.Equal(t, cat.T(w.Scenes[i].Title), first.Title)
			assert.Equal(t, w.Scenes[i].ShowBack, first.ShowBack)
			assert.Equal(t, w.Scenes[i].ShowSkip, first.ShowSkip)
		}
	}
}

func TestProject_Errors(t *testing.T) {
	reg := registry.NewRegistry()
	cat := locale.NewCatalog()

	_, err := Project(reg, navigation.State{Workflow: "nope"}, cat, "Edge")
	assert.ErrorIs(t, err, registry.ErrUnknownWorkflow)

	_, err = Project(reg, navigation.State{Workflow: registry.WorkflowLogin, SceneIndex: 3}, cat, "Edge")
	assert.ErrorIs(t, err, registry.ErrIndexOutOfRange)
}

func TestView(t *testing.T) {
	t.Run("hints follow the chrome", func(t *testing.T) {
		out := View(Chrome{Title: "PIN", ShowBack: true}, 40)
		assert.Contains(t, out, "PIN")
		assert.Contains(t, out, "esc")
		assert.NotContains(t, out, "skip")
	})

	t.Run("skip and subtitle", func(t *testing.T) {
		out := View(Chrome{Title: "Change PIN", SubTitle: "four digits", ShowSkip: true}, 60)
		assert.Contains(t, out, "skip")
		assert.Contains(t, out, "four digits")
		assert.NotContains(t, out, "esc")
	})

	t.Run("unknown width", func(t *testing.T) {
		out := View(Chrome{Title: "Login"}, 0)
		assert.Equal(t, "Login", out)
	})
}
