// Package manifest reads scene manifest files.
//
// A scene manifest lets a host application replace the built-in scene table
// without recompiling. It lists every scene of every workflow, one row per
// scene, with the chrome metadata the header needs:
//
//	workflow,scene,title,subtitle,back,skip
//	login,passwordLogin,login_button,,false,false
//	pin,pinLogin,pin,,true,false
//	createAccount,newAccountWelcome,create_an_account,,true,false
//	createAccount,newAccountUsername,choose_title_username,username_desc,true,false
//
// Rows are ordered: a workflow's scenes appear in the order they are visited
// and workflows are listed in order of first appearance. Title and subtitle
// columns hold locale message keys, not display text.
//
// The companion navigation file (see [ReadNavigationFromFile]) declares the
// entry workflow and the back-target table.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// SceneEntry represents a single row in the scene manifest CSV.
type SceneEntry struct {
	// Workflow is the workflow the scene belongs to (e.g., "createAccount").
	Workflow string

	// Scene is the scene identifier the renderer mounts (e.g., "pinLogin").
	Scene string

	// Title is the locale key of the header title.
	Title string

	// SubTitle is the locale key of the optional header subtitle.
	SubTitle string

	// Back controls whether the header offers a back affordance.
	Back bool

	// Skip controls whether the header offers a skip affordance.
	Skip bool
}

// Manifest holds all scene entries parsed from a manifest CSV file.
type Manifest struct {
	// Entries are the scene entries in visiting order.
	Entries []SceneEntry
}

// ReadFromFile reads and parses a scene manifest CSV file.
func ReadFromFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return readFromReader(f)
}

// ReadFromString parses a scene manifest held in memory.
func ReadFromString(data string) (*Manifest, error) {
	return readFromReader(strings.NewReader(data))
}

func readFromReader(r io.Reader) (*Manifest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}
	cols, err := newColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []SceneEntry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest line %d: %w", line, err)
		}
		entry, err := cols.entry(record)
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, errors.New("manifest contains no scene entries")
	}
	return &Manifest{Entries: entries}, nil
}

// requiredColumns must appear in the header; back, skip and subtitle are
// optional.
var requiredColumns = []string{"workflow", "scene", "title"}

// columns maps lower-cased header names to record positions.
type columns map[string]int

func newColumns(header []string) (columns, error) {
	c := make(columns, len(header))
	for i, name := range header {
		c[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := c[name]; !ok {
			return nil, fmt.Errorf("manifest missing required column: %s", name)
		}
	}
	return c, nil
}

func (c columns) text(record []string, name string) string {
	if i, ok := c[name]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

// flag parses an optional boolean cell. Empty cells are false.
func (c columns) flag(record []string, name string) (bool, error) {
	raw := c.text(record, name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("column %s: invalid boolean %q", name, raw)
	}
	return v, nil
}

func (c columns) entry(record []string) (SceneEntry, error) {
	e := SceneEntry{
		Workflow: c.text(record, "workflow"),
		Scene:    c.text(record, "scene"),
		Title:    c.text(record, "title"),
		SubTitle: c.text(record, "subtitle"),
	}
	switch {
	case e.Workflow == "":
		return e, errors.New("workflow name is required")
	case e.Scene == "":
		return e, errors.New("scene id is required")
	}
	var err error
	if e.Back, err = c.flag(record, "back"); err != nil {
		return e, err
	}
	if e.Skip, err = c.flag(record, "skip"); err != nil {
		return e, err
	}
	return e, nil
}

// Workflows returns the workflow names in order of first appearance.
func (m *Manifest) Workflows() []string {
	var names []string
	for _, e := range m.Entries {
		if !slices.Contains(names, e.Workflow) {
			names = append(names, e.Workflow)
		}
	}
	return names
}

// ScenesFor returns the scene entries of a workflow in visiting order.
func (m *Manifest) ScenesFor(workflow string) []SceneEntry {
	var entries []SceneEntry
	for _, e := range m.Entries {
		if e.Workflow == workflow {
			entries = append(entries, e)
		}
	}
	return entries
}

// HasWorkflow reports whether any row belongs to name.
func (m *Manifest) HasWorkflow(name string) bool {
	return slices.ContainsFunc(m.Entries, func(e SceneEntry) bool { return e.Workflow == name })
}
