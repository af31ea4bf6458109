package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"edgelogin/internal/header"
	"edgelogin/internal/locale"
	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
	"edgelogin/internal/screen"
)

func newScenesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes [workflow...]",
		Short: "List workflows and their scenes",
		Long: `List the scenes of every workflow, or of the named workflows, with
their titles, back targets and skip flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.Registry()
			if err != nil {
				app.Printer.Error("Failed to load workflows: %v", err)
				return NewExitError(ExitCodeError)
			}
			cat, err := app.Catalog()
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(ExitCodeError)
			}

			ids := reg.Workflows()
			if len(args) > 0 {
				ids = ids[:0:0]
				for _, a := range args {
					ids = append(ids, registry.WorkflowID(a))
				}
			}

			var rows [][]string
			for _, id := range ids {
				w, err := reg.LookupWorkflow(id)
				if err != nil {
					app.Printer.Error("%v", err)
					return NewExitError(ExitCodeError)
				}
				for i, s := range w.Scenes {
					back := ""
					if i == 0 {
						back = string(w.BackTarget)
					}
					rows = append(rows, []string{
						string(id),
						strconv.Itoa(i),
						string(s.ID),
						cat.T(s.Title),
						flag(s.ShowBack, back),
						flag(s.ShowSkip, ""),
					})
				}
			}
			app.Printer.Table([]string{"WORKFLOW", "#", "SCENE", "TITLE", "BACK", "SKIP"}, rows)
			return nil
		},
	}
}

func flag(on bool, detail string) string {
	switch {
	case !on:
		return "-"
	case detail != "":
		return "yes (" + detail + ")"
	default:
		return "yes"
	}
}

func newHeaderCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "header <workflow> <index>",
		Short: "Print the header chrome for a scene",
		Long: `Print the header chrome a scene is drawn under.

Example:
  edgelogin header createAccount 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				app.Printer.Error("Invalid scene index %q", args[1])
				return NewExitError(ExitCodeError)
			}
			reg, err := app.Registry()
			if err != nil {
				app.Printer.Error("Failed to load workflows: %v", err)
				return NewExitError(ExitCodeError)
			}
			cat, err := app.Catalog()
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(ExitCodeError)
			}

			appName := app.Config.Branding.AppName
			if appName == "" {
				appName = cat.T(locale.KeyAppNameDefault)
			}
			state := navigation.State{Workflow: registry.WorkflowID(args[0]), SceneIndex: index}
			chrome, err := header.Project(reg, state, cat, appName)
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(ExitCodeError)
			}
			app.Printer.Line("%s", header.View(chrome, 0))
			return nil
		},
	}
}

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the workflow table against the available screens",
		Long: `Check that every scene in the workflow table has a screen, that every
title and subtitle has a message, and that every workflow is reachable.

Exits 1 when a blocking problem is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.Registry()
			if err != nil {
				app.Printer.Error("Failed to load workflows: %v", err)
				return NewExitError(ExitCodeError)
			}
			if _, err := app.Catalog(); err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(ExitCodeError)
			}

			known := screen.NewRenderer(screen.Deps{}).Known()
			result := registry.Validate(reg, known)
			for _, w := range result.Warnings {
				app.Printer.Warning("%s", w)
			}
			for _, e := range result.Errors {
				app.Printer.Error("%s", e)
			}
			if result.HasErrors() {
				return NewExitError(ExitCodeError)
			}
			app.Printer.Success("%d workflows, %d screens: no problems found", len(reg.Workflows()), len(known))
			return nil
		},
	}
}
