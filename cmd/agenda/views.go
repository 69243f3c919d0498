package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/agenda/internal/schedule"
	"github.com/abatilo/agenda/internal/session"
	"github.com/abatilo/agenda/internal/task"
	"github.com/abatilo/agenda/internal/view"
)

// listCmd implements 'agenda list [view]'.
func listCmd() *cobra.Command {
	var (
		project    string
		tag        string
		search     string
		hideDone   bool
		statuses   []string
		priorities []string
		projects   []string
		sortKey    string
		groupKey   string
	)
	cmd := &cobra.Command{
		Use:     "list [inbox|today|upcoming|completed|waiting|project|tag|blocked|all]",
		Aliases: []string{"ls", "view"},
		Short:   "List tasks in a view (default today)",
		Args:    cobra.MaximumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			store := e.Store()

			id := view.Today
			if len(args) == 1 {
				var err error
				if id, err = parseEnum("view", args[0], view.Views); err != nil {
					printError(err)
				}
			}
			if project != "" && len(args) == 0 {
				id = view.Project
			}
			if tag != "" && len(args) == 0 {
				id = view.Tag
			}

			s, err := parseEnum("sort", sortKey, []view.SortKey{
				view.SortDefault, view.SortCreated, view.SortDue, view.SortPriority, view.SortName, view.SortReady,
			})
			if err != nil {
				printError(err)
			}
			g, err := parseEnum("group", groupKey, []view.GroupKey{
				view.GroupNone, view.GroupProject, view.GroupPriority, view.GroupStatus, view.GroupDue,
			})
			if err != nil {
				printError(err)
			}

			q := view.Query{View: id, Text: search, HideCompleted: hideDone, Sort: s, Group: g}
			if q.ProjectID, err = resolveProjectRef(store, project); err != nil {
				printError(err)
			}
			if tag != "" {
				ids, err := resolveTagRefs(store, []string{tag})
				if err != nil {
					printError(err)
				}
				q.TagID = ids[0]
			}
			for _, st := range statuses {
				v, err := parseEnum("status", st, task.Statuses)
				if err != nil {
					printError(err)
				}
				q.Statuses = append(q.Statuses, v)
			}
			for _, pr := range priorities {
				v, err := parseEnum("priority", pr, task.Priorities)
				if err != nil {
					printError(err)
				}
				q.Priorities = append(q.Priorities, v)
			}
			for _, ref := range projects {
				pid, err := resolveProjectRef(store, ref)
				if err != nil {
					printError(err)
				}
				q.ProjectIDs = append(q.ProjectIDs, pid)
			}

			res := e.DeriveView(q)
			if q.Group != view.GroupNone {
				printOutput(formatter.FormatGroups(res.Groups))
				return
			}
			printOutput(formatter.FormatTaskList(res.Tasks))
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name for the project view")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag id or name for the tag view")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Only tasks whose name or description contains this text")
	cmd.Flags().BoolVar(&hideDone, "hide-done", false, "Master list: hide completed tasks")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Master list: only these statuses")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "Master list: only these priorities")
	cmd.Flags().StringSliceVar(&projects, "in", nil, "Master list: only these projects")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort by created, due, priority, name, or ready")
	cmd.Flags().StringVar(&groupKey, "group", "", "Group by project, priority, status, or due")
	return cmd
}

// focusCmd implements 'agenda focus'.
func focusCmd() *cobra.Command {
	var mode string
	var n int
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Show today's focus queue",
		Run: func(cmd *cobra.Command, _ []string) {
			e := getEngine()
			m := cfg.FocusMode
			if cmd.Flags().Changed("mode") {
				var err error
				if m, err = parseEnum("mode", mode, []schedule.Mode{schedule.TodayRelevant, schedule.TopScored}); err != nil {
					printError(err)
				}
			}
			size := cfg.FocusSize
			if cmd.Flags().Changed("limit") {
				size = n
			}
			printOutput(formatter.FormatFocus(m, e.BuildFocusQueue(m, size)))
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Strategy: today-relevant or top-scored (default from config)")
	cmd.Flags().IntVarP(&n, "limit", "n", 0, "Top-scored queue size (default from config)")
	return cmd
}

// rollCmd implements 'agenda roll'. It runs regardless of whether today's
// automatic roll already happened, and counts as today's run.
func rollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll",
		Short: "Move stale scheduled and due dates to today",
		Run: func(_ *cobra.Command, _ []string) {
			e := getEngine()
			report, err := e.RollForward(e.Today())
			check(err)
			if err := session.Record(cfg.DataDir, report, time.Now()); err != nil {
				logger.WithError(err).Warn("could not record roll-forward")
			}
			printOutput(formatter.FormatRollReport(report))
		},
	}
}
