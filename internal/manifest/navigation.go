package manifest

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Navigation declares how workflows connect: which one a session starts in
// and where BACK leads from the first scene of each workflow.
type Navigation struct {
	// Entry is the workflow a new session starts in.
	Entry string `yaml:"entry"`

	// BackTargets maps a workflow to the workflow BACK switches to from its
	// first scene. The reserved target "exit" ends the session.
	BackTargets map[string]string `yaml:"back_targets"`
}

// ReadNavigationFromFile reads and parses a navigation YAML file.
//
// The expected format is:
//
//	entry: login
//	back_targets:
//	  login: exit
//	  pin: login
//	  createAccount: login
func ReadNavigationFromFile(path string) (*Navigation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read navigation manifest: %w", err)
	}

	return ReadNavigationFromBytes(data)
}

// ReadNavigationFromBytes parses a navigation manifest from YAML bytes.
func ReadNavigationFromBytes(data []byte) (*Navigation, error) {
	var nav Navigation
	if err := yaml.Unmarshal(data, &nav); err != nil {
		return nil, fmt.Errorf("failed to parse navigation manifest: %w", err)
	}

	if nav.Entry == "" {
		return nil, fmt.Errorf("navigation manifest has no entry workflow")
	}
	if len(nav.BackTargets) == 0 {
		return nil, fmt.Errorf("navigation manifest declares no back targets")
	}

	for from, to := range nav.BackTargets {
		if from == "" || to == "" {
			return nil, fmt.Errorf("navigation manifest has an empty back target entry (%q -> %q)", from, to)
		}
	}

	return &nav, nil
}

// BackTarget returns the declared back target for a workflow.
func (n *Navigation) BackTarget(workflow string) (string, bool) {
	target, ok := n.BackTargets[workflow]
	return target, ok
}

// Sources returns the workflows that declare a back target, sorted.
func (n *Navigation) Sources() []string {
	names := make([]string, 0, len(n.BackTargets))
	for name := range n.BackTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
