package registry

import (
	"fmt"

	"edgelogin/internal/locale"
)

// ValidationResult holds errors and warnings from registry validation.
type ValidationResult struct {
	Errors   []string // Blocking: unknown locale keys, scenes with no screen
	Warnings []string // Non-blocking: duplicate scenes, unreachable workflows
}

// HasErrors returns true if there are blocking validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Validate checks that every scene in reg can actually be shown: its title
// and subtitle are declared locale keys and a screen exists for its id.
// Structural checks (entry, back targets, empty workflows) are already
// enforced by [New].
func Validate(reg *Registry, renderable []SceneID) *ValidationResult {
	r := &ValidationResult{}

	known := make(map[SceneID]bool, len(renderable))
	for _, id := range renderable {
		known[id] = true
	}

	for _, id := range reg.order {
		w := reg.workflows[id]
		validateScenes(w, known, r)
	}
	validateReachability(reg, r)

	return r
}

// validateScenes checks the descriptors of one workflow.
func validateScenes(w *Workflow, known map[SceneID]bool, r *ValidationResult) {
	seen := make(map[SceneID]int, len(w.Scenes))
	for i, s := range w.Scenes {
		if !known[s.ID] {
			r.Errors = append(r.Errors, fmt.Sprintf(
				"workflow %q scene %d: no screen registered for %q", w.ID, i, s.ID))
		}
		if !locale.Known(s.Title) {
			r.Errors = append(r.Errors, fmt.Sprintf(
				"workflow %q scene %d: title %q is not a locale key", w.ID, i, s.Title))
		}
		if s.SubTitle != "" && !locale.Known(s.SubTitle) {
			r.Errors = append(r.Errors, fmt.Sprintf(
				"workflow %q scene %d: subtitle %q is not a locale key", w.ID, i, s.SubTitle))
		}
		if prev, dup := seen[s.ID]; dup {
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"workflow %q: scene %q appears at %d and %d", w.ID, s.ID, prev, i))
		} else {
			seen[s.ID] = i
		}
	}
}

// validateReachability warns when BACK chains can loop without passing
// through the entry workflow or exit.
func validateReachability(reg *Registry, r *ValidationResult) {
	for _, start := range reg.order {
		visited := map[WorkflowID]bool{start: true}
		cur := start
		for {
			next := reg.workflows[cur].BackTarget
			if next == Exit || next == reg.entry {
				break
			}
			if visited[next] {
				r.Warnings = append(r.Warnings, fmt.Sprintf(
					"workflow %q: repeated BACK loops through %q without reaching %q or exit", start, next, reg.entry))
				break
			}
			visited[next] = true
			cur = next
		}
	}
}
