package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abatilo/agenda/internal/engine"
	"github.com/abatilo/agenda/internal/task"
)

var projectStatuses = []task.ProjectStatus{task.ProjectActive, task.ProjectPaused, task.ProjectBlocked} //nolint:gochecknoglobals // closed enumeration

// projectCmd implements 'agenda project'.
func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatProjects(getEngine().Store()))
		},
	}

	var color, category, status string

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			in := engine.NewProject{Name: args[0], Color: color, CategoryID: resolveCategoryRef(e.Store(), category)}
			if status != "" {
				s, err := parseEnum("status", status, projectStatuses)
				if err != nil {
					printError(err)
				}
				in.Status = s
			}
			p, err := e.CreateProject(in)
			check(err)
			printOutput(formatter.FormatMessage(fmt.Sprintf("Created project [%s] %s", p.ID, p.Name)))
		},
	}

	var name string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change project fields",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e := getEngine()
			id, err := resolveProjectRef(e.Store(), args[0])
			if err != nil {
				printError(err)
			}
			var p engine.ProjectPatch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("color") {
				p.Color = &color
			}
			if cmd.Flags().Changed("category") {
				c := resolveCategoryRef(e.Store(), category)
				p.CategoryID = &c
			}
			if cmd.Flags().Changed("status") {
				s, err := parseEnum("status", status, projectStatuses)
				if err != nil {
					printError(err)
				}
				p.Status = &s
			}
			proj, err := e.UpdateProject(id, p)
			check(err)
			printOutput(formatter.FormatMessage(fmt.Sprintf("Updated project [%s] %s", proj.ID, proj.Name)))
		},
	}
	edit.Flags().StringVarP(&name, "name", "n", "", "Project name")

	for _, c := range []*cobra.Command{add, edit} {
		c.Flags().StringVarP(&color, "color", "c", "", "Display color (#rrggbb)")
		c.Flags().StringVar(&category, "category", "", "Category id or name (empty to unassign)")
		c.Flags().StringVarP(&status, "status", "s", "", "Status (active, paused, blocked)")
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a project and all of its tasks",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			id, err := resolveProjectRef(e.Store(), args[0])
			if err != nil {
				printError(err)
			}
			check(e.DeleteProject(id))
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed project %s", id)))
		},
	}

	cmd.AddCommand(add, edit, rm, listSubCmd(func(e *engine.Engine) string {
		return formatter.FormatProjects(e.Store())
	}))
	return cmd
}

// tagCmd implements 'agenda tag'.
func tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Aliases: []string{"tags"},
		Short:   "Manage tags",
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatTags(getEngine().Store().Tags))
		},
	}

	var name, color string

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			tag, err := getEngine().CreateTag(strings.TrimPrefix(args[0], "#"), color)
			check(err)
			printOutput(formatter.FormatMessage(fmt.Sprintf("Created tag [%s] #%s", tag.ID, tag.Name)))
		},
	}
	add.Flags().StringVarP(&color, "color", "c", "", "Display color (#rrggbb)")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a tag",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e := getEngine()
			id := resolveTagRef(e.Store(), args[0])
			var p engine.TagPatch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("color") {
				p.Color = &color
			}
			tag, err := e.UpdateTag(id, p)
			check(err)
			printOutput(formatter.FormatMessage(fmt.Sprintf("Updated tag [%s] #%s", tag.ID, tag.Name)))
		},
	}
	edit.Flags().StringVarP(&name, "name", "n", "", "Tag name")
	edit.Flags().StringVarP(&color, "color", "c", "", "Display color (#rrggbb)")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag and remove it from every task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			id := resolveTagRef(e.Store(), args[0])
			check(e.DeleteTag(id))
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed tag %s", id)))
		},
	}

	cmd.AddCommand(add, edit, rm, listSubCmd(func(e *engine.Engine) string {
		return formatter.FormatTags(e.Store().Tags)
	}))
	return cmd
}

// categoryCmd implements 'agenda category'.
func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage project categories",
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatProjects(getEngine().Store()))
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			c, err := getEngine().CreateCategory(args[0])
			check(err)
			printOutput(formatter.FormatMessage(fmt.Sprintf("Created category [%s] %s", c.ID, c.Name)))
		},
	}

	var name string
	var collapsed bool
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename, collapse, or expand a category",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e := getEngine()
			var p engine.CategoryPatch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("collapsed") {
				p.Collapsed = &collapsed
			}
			c, err := e.UpdateCategory(resolveCategoryRef(e.Store(), args[0]), p)
			check(err)
			printOutput(formatter.FormatMessage(fmt.Sprintf("Updated category [%s] %s", c.ID, c.Name)))
		},
	}
	edit.Flags().StringVarP(&name, "name", "n", "", "Category name")
	edit.Flags().BoolVar(&collapsed, "collapsed", false, "Hide the category's projects in listings")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category; its projects become uncategorized",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			id := resolveCategoryRef(e.Store(), args[0])
			check(e.DeleteCategory(id))
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed category %s", id)))
		},
	}

	cmd.AddCommand(add, edit, rm, listSubCmd(func(e *engine.Engine) string {
		return formatter.FormatProjects(e.Store())
	}))
	return cmd
}

func listSubCmd(render func(*engine.Engine) string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries",
		Args:    cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(render(getEngine()))
		},
	}
}

// resolveTagRef resolves a single tag id or name. Ambiguous names are
// reported and exit.
func resolveTagRef(store *task.Store, ref string) string {
	ids, err := resolveTagRefs(store, []string{ref})
	if err != nil {
		printError(err)
	}
	return ids[0]
}

// resolveCategoryRef maps a category id or a unique name to an id.
func resolveCategoryRef(store *task.Store, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || store.Category(ref) != nil {
		return ref
	}
	id := ref
	for _, c := range store.Categories {
		if strings.EqualFold(c.Name, ref) {
			if id != ref {
				return ref
			}
			id = c.ID
		}
	}
	return id
}
