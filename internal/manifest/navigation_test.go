package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNavigationFromFile(t *testing.T) {
	nav, err := ReadNavigationFromFile(filepath.Join("testdata", "navigation.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "login", nav.Entry)

	target, ok := nav.BackTarget("pin")
	assert.True(t, ok)
	assert.Equal(t, "login", target)

	target, ok = nav.BackTarget("login")
	assert.True(t, ok)
	assert.Equal(t, "exit", target)

	_, ok = nav.BackTarget("otp")
	assert.False(t, ok)

	assert.Equal(t, []string{"createAccount", "login", "pin", "resecure"}, nav.Sources())
}

func TestReadNavigationFromFile_NotFound(t *testing.T) {
	nav, err := ReadNavigationFromFile(filepath.Join("testdata", "missing.yaml"))

	assert.Error(t, err)
	assert.Nil(t, nav)
	assert.Contains(t, err.Error(), "failed to read navigation manifest")
}

func TestReadNavigationFromFile_NoEntry(t *testing.T) {
	nav, err := ReadNavigationFromFile(filepath.Join("testdata", "navigation_no_entry.yaml"))

	assert.Error(t, err)
	assert.Nil(t, nav)
	assert.Contains(t, err.Error(), "no entry workflow")
}

func TestReadNavigationFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"invalid yaml", "entry: [", "failed to parse navigation manifest"},
		{"no back targets", "entry: login\n", "declares no back targets"},
		{"empty target", "entry: login\nback_targets:\n  pin: \"\"\n", "empty back target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, err := ReadNavigationFromBytes([]byte(tt.yaml))

			assert.Error(t, err)
			assert.Nil(t, nav)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
