// Package header projects the workflow state onto the chrome shown above
// every scene: a title, an optional subtitle and the back and skip
// affordances.
//
// [Project] is a pure function of the registry, the state and the catalog.
// [View] renders a [Chrome] with the shared lipgloss styles.
package header

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"edgelogin/internal/locale"
	"edgelogin/internal/navigation"
	"edgelogin/internal/output"
	"edgelogin/internal/registry"
)

// Chrome is the resolved header for one scene.
type Chrome struct {
	Title    string
	SubTitle string
	ShowBack bool
	ShowSkip bool
}

// Project resolves the chrome of the scene at state.
//
// Subtitles that take an argument, such as the username description, are
// filled with appName.
func Project(reg *registry.Registry, state navigation.State, cat *locale.Catalog, appName string) (Chrome, error) {
	scene, err := reg.Scene(state.Workflow, state.SceneIndex)
	if err != nil {
		return Chrome{}, fmt.Errorf("project header for %s: %w", state, err)
	}

	c := Chrome{
		Title:    cat.T(scene.Title),
		ShowBack: scene.ShowBack,
		ShowSkip: scene.ShowSkip,
	}
	if scene.SubTitle != "" {
		c.SubTitle = cat.T(scene.SubTitle, appName)
	}
	return c, nil
}

// View renders c at the given width. Back and skip hints appear only when
// the chrome enables them.
func View(c Chrome, width int) string {
	left := ""
	if c.ShowBack {
		left = output.HintStyle.Render("← esc")
	}
	right := ""
	if c.ShowSkip {
		right = output.HintStyle.Render("ctrl+s skip →")
	}

	title := output.TitleStyle.Render(c.Title)
	if width <= 0 {
		parts := []string{left, title, right}
		line := strings.TrimSpace(strings.Join(parts, "  "))
		if c.SubTitle == "" {
			return line
		}
		return lipgloss.JoinVertical(lipgloss.Left, line, output.SubtitleStyle.Render(c.SubTitle))
	}

	side := (width - lipgloss.Width(title)) / 2
	if side < 0 {
		side = 0
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(side).Align(lipgloss.Left).Render(left),
		title,
		lipgloss.NewStyle().Width(side).Align(lipgloss.Right).Render(right),
	)
	if c.SubTitle == "" {
		return bar
	}
	sub := output.SubtitleStyle.Width(width).Align(lipgloss.Center).Render(c.SubTitle)
	return lipgloss.JoinVertical(lipgloss.Left, bar, sub)
}
