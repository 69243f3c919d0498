package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abatilo/agenda/internal/engine"
	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/output"
	"github.com/abatilo/agenda/internal/session"
	"github.com/abatilo/agenda/internal/task"
)

// taskFlags are the field flags shared by add and edit.
type taskFlags struct {
	name        string
	description string
	status      string
	priority    string
	project     string
	due         string
	on          string
	at          string
	estimate    int
	tags        []string
}

func (f *taskFlags) register(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVarP(&f.name, "name", "n", "", "Task name")
	}
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "Status (todo, ready, in-progress, waiting, review, done)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority (urgent, high, medium, low, none)")
	cmd.Flags().StringVar(&f.project, "project", "", "Project id or name (default Inbox)")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD, today, tomorrow, +Nd, none)")
	cmd.Flags().StringVar(&f.on, "on", "", "Scheduled date (YYYY-MM-DD, today, tomorrow, +Nd, none)")
	cmd.Flags().StringVar(&f.at, "at", "", "Scheduled time of day (HH:MM); requires a scheduled date")
	cmd.Flags().IntVarP(&f.estimate, "estimate", "e", 0, "Estimated minutes")
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "Tag id or name (repeatable)")
}

// detail resolves the neighbourhood of t for display.
func detail(e *engine.Engine, t *task.Task) output.TaskDetail {
	d := output.TaskDetail{Task: t}
	if entry, ok := e.Index().Entry(t.ID); ok {
		d.Project = entry.Project
	}
	d.Blocked = e.Graph().IsBlocked(t)
	d.Blockers = e.Graph().BlockingTasks(t)
	d.OpenBlockers = e.Graph().OpenBlockers(t)
	d.Blocks = e.Graph().BlockedTasks(t)
	for _, id := range t.Tags {
		if tag := e.Store().Tag(id); tag != nil {
			d.Tags = append(d.Tags, tag)
		}
	}
	return d
}

func printTask(e *engine.Engine, t *task.Task) {
	printOutput(formatter.FormatTask(detail(e, t)))
}

// initCmd implements 'agenda init'.
func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the agenda data directory",
		Run: func(_ *cobra.Command, _ []string) {
			if err := persister.Init(force); err != nil {
				printError(err)
			}
			if err := session.Delete(cfg.DataDir); err != nil {
				logger.WithError(err).Warn("could not reset maintenance state")
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Initialized agenda at %s", persister.Path())))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reinitialize even if already exists (erases all data)")
	return cmd
}

// addCmd implements 'agenda add'.
func addCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			today := e.Today()

			due, err := parseDateInput("due", f.due, today)
			if err != nil {
				printError(err)
			}
			on, err := parseDateInput("on", f.on, today)
			if err != nil {
				printError(err)
			}
			projectID, err := resolveProjectRef(e.Store(), f.project)
			if err != nil {
				printError(err)
			}
			tags, err := resolveTagRefs(e.Store(), f.tags)
			if err != nil {
				printError(err)
			}

			status, err := parseStatusFlag(f.status)
			if err != nil {
				printError(err)
			}
			priority, err := parsePriorityFlag(f.priority)
			if err != nil {
				printError(err)
			}

			t, err := e.CreateTask(engine.NewTask{
				Name:             args[0],
				Description:      f.description,
				ProjectID:        projectID,
				Status:           status,
				Priority:         priority,
				DueDate:          due,
				ScheduledDate:    on,
				ScheduledTime:    task.TimeOfDay(f.at),
				EstimatedMinutes: f.estimate,
				Tags:             tags,
			})
			check(err)
			printTask(e, t)
		},
	}
	f.register(cmd, false)
	return cmd
}

// subCmd implements 'agenda sub'.
func subCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sub <parent-id> <name>",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			st, err := e.CreateSubtask(args[0], args[1])
			check(err)
			printTask(e, st)
		},
	}
}

// showCmd implements 'agenda show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			t := e.Lookup(args[0])
			if t == nil {
				printError(agendaerrors.TaskNotFoundError{ID: args[0]})
			}
			printTask(e, t)
		},
	}
}

// editCmd implements 'agenda edit'. Only flags given on the command line
// are changed.
func editCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change task fields",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e := getEngine()
			flags := cmd.Flags()
			today := e.Today()
			var p engine.Patch

			if flags.Changed("name") {
				p.Name = &f.name
			}
			if flags.Changed("description") {
				p.Description = &f.description
			}
			if flags.Changed("status") {
				s, err := parseStatusFlag(f.status)
				if err != nil {
					printError(err)
				}
				p.Status = &s
			}
			if flags.Changed("priority") {
				pr, err := parsePriorityFlag(f.priority)
				if err != nil {
					printError(err)
				}
				p.Priority = &pr
			}
			if flags.Changed("due") {
				d, err := parseDateInput("due", f.due, today)
				if err != nil {
					printError(err)
				}
				p.DueDate = &d
			}
			if flags.Changed("on") {
				d, err := parseDateInput("on", f.on, today)
				if err != nil {
					printError(err)
				}
				p.ScheduledDate = &d
			}
			if flags.Changed("at") {
				at := task.TimeOfDay(f.at)
				p.ScheduledTime = &at
			}
			if flags.Changed("estimate") {
				p.EstimatedMinutes = &f.estimate
			}
			if flags.Changed("tag") {
				tags, err := resolveTagRefs(e.Store(), f.tags)
				if err != nil {
					printError(err)
				}
				p.Tags = &tags
			}

			t, err := e.UpdateTask(args[0], p)
			check(err)
			if flags.Changed("project") {
				projectID, err := resolveProjectRef(e.Store(), f.project)
				if err != nil {
					printError(err)
				}
				t, err = e.MoveTaskToProject(args[0], projectID)
				check(err)
			}
			printTask(e, t)
		},
	}
	f.register(cmd, true)
	return cmd
}

func setStatus(id string, s task.Status) {
	e := getEngine()
	t, err := e.UpdateTask(id, engine.Patch{Status: &s})
	check(err)
	printTask(e, t)
}

// doneCmd implements 'agenda done'.
func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			setStatus(args[0], task.StatusDone)
		},
	}
}

// statusCmd implements 'agenda status'.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			s, err := parseStatusFlag(args[1])
			if err != nil {
				printError(err)
			}
			setStatus(args[0], s)
		},
	}
}

// moveCmd implements 'agenda move'.
func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> [project]",
		Short: "Move a task to another project (default Inbox)",
		Args:  cobra.RangeArgs(1, 2), //nolint:mnd // Optional project argument
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			projectID := ""
			if len(args) == 2 { //nolint:mnd // Optional project argument
				var err error
				if projectID, err = resolveProjectRef(e.Store(), args[1]); err != nil {
					printError(err)
				}
			}
			t, err := e.MoveTaskToProject(args[0], projectID)
			check(err)
			printTask(e, t)
		},
	}
}

// rmCmd implements 'agenda rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			e := getEngine()
			check(e.DeleteTask(args[0]))
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed task %s", args[0])))
		},
	}
}
