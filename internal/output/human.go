package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/agenda/internal/schedule"
	"github.com/abatilo/agenda/internal/task"
	"github.com/abatilo/agenda/internal/view"
)

// Palette. Colors drop out automatically when stdout is not a terminal.
var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true)
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true)
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	mediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	defaultStyle = lipgloss.NewStyle()
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(d TaskDetail) string {
	t := d.Task
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", dimStyle.Render("["+t.ID+"]"), headerStyle.Render(t.Name))
	fmt.Fprintf(&sb, "  Status:    %s\n", t.Status)
	fmt.Fprintf(&sb, "  Priority:  %s\n", t.Priority)
	if d.Project != nil {
		fmt.Fprintf(&sb, "  Project:   %s\n", d.Project.Name)
	}
	if t.ParentID != "" {
		fmt.Fprintf(&sb, "  Parent:    %s\n", t.ParentID)
	}
	if !t.DueDate.IsZero() {
		fmt.Fprintf(&sb, "  Due:       %s\n", t.DueDate)
	}
	if !t.ScheduledDate.IsZero() {
		when := t.ScheduledDate.String()
		if !t.ScheduledTime.IsZero() {
			when += " " + string(t.ScheduledTime)
		}
		fmt.Fprintf(&sb, "  Scheduled: %s\n", when)
	}
	if t.EstimatedMinutes > 0 {
		fmt.Fprintf(&sb, "  Estimate:  %dm\n", t.EstimatedMinutes)
	}
	if len(d.Tags) > 0 {
		names := make([]string, len(d.Tags))
		for i, tag := range d.Tags {
			names[i] = tag.Name
		}
		fmt.Fprintf(&sb, "  Tags:      %s\n", strings.Join(names, ", "))
	}
	if t.SnoozeCount > 0 {
		fmt.Fprintf(&sb, "  Snoozed:   %d\n", t.SnoozeCount)
	}
	fmt.Fprintf(&sb, "  Created:   %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	if t.CompletedAt != nil {
		fmt.Fprintf(&sb, "  Completed: %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
	}
	if len(d.Blockers) > 0 {
		label := "  Blocked by:"
		if d.Blocked {
			label = warnStyle.Render(label)
		}
		fmt.Fprintf(&sb, "%s %s\n", label, joinIDs(d.Blockers))
	}
	if len(d.OpenBlockers) > 0 {
		fmt.Fprintf(&sb, "  Waiting on: %s\n", strings.Join(d.OpenBlockers, ", "))
	}
	if len(d.Blocks) > 0 {
		fmt.Fprintf(&sb, "  Blocks:    %s\n", joinIDs(d.Blocks))
	}
	if len(t.Subtasks) > 0 {
		sb.WriteString("  Subtasks:\n")
		for _, st := range t.Subtasks {
			fmt.Fprintf(&sb, "    %s [%s] %s\n", f.statusIcon(st.Status), st.ID, st.Name)
		}
	}
	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// FormatGroups formats grouped view output with a header per bucket.
func (f *HumanFormatter) FormatGroups(groups []view.Group) string {
	if len(groups) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s\n", headerStyle.Render(g.Label), dimStyle.Render(fmt.Sprintf("(%d)", len(g.Tasks))))
		for _, t := range g.Tasks {
			sb.WriteString("  " + f.formatTaskLine(t))
		}
	}
	return sb.String()
}

// FormatFocus formats the focus queue as a numbered list.
func (f *HumanFormatter) FormatFocus(mode schedule.Mode, tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "Nothing to focus on today.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", headerStyle.Render("Focus"), dimStyle.Render("("+string(mode)+")"))
	for i, t := range tasks {
		fmt.Fprintf(&sb, "%2d. %s", i+1, f.formatTaskLine(t))
	}
	return sb.String()
}

// FormatRollReport summarizes a roll-forward run.
func (f *HumanFormatter) FormatRollReport(r schedule.Report) string {
	if r.Count() == 0 {
		return "Nothing to roll forward.\n"
	}
	return fmt.Sprintf("Rolled %d task(s) forward to %s (%d rescheduled, %d re-dated).\n",
		r.Count(), r.Today, r.Rescheduled, r.Redue)
}

// FormatProjects lists projects under their categories. Uncategorized
// projects come first; collapsed categories show only a count.
func (f *HumanFormatter) FormatProjects(store *task.Store) string {
	if len(store.Projects) == 0 {
		return "No projects found.\n"
	}

	var sb strings.Builder
	for _, p := range store.Projects {
		if p.CategoryID == "" || store.Category(p.CategoryID) == nil {
			sb.WriteString(f.formatProjectLine(p))
		}
	}
	for _, c := range store.Categories {
		var members []*task.Project
		for _, p := range store.Projects {
			if p.CategoryID == c.ID {
				members = append(members, p)
			}
		}
		if c.Collapsed {
			fmt.Fprintf(&sb, "%s %s\n", headerStyle.Render("▸ "+c.Name), dimStyle.Render(fmt.Sprintf("(%d projects)", len(members))))
			continue
		}
		fmt.Fprintf(&sb, "%s\n", headerStyle.Render("▾ "+c.Name))
		for _, p := range members {
			sb.WriteString("  " + f.formatProjectLine(p))
		}
	}
	return sb.String()
}

func (f *HumanFormatter) formatProjectLine(p *task.Project) string {
	open := 0
	for _, t := range p.Tasks {
		if !t.IsDone() {
			open++
		}
	}
	status := ""
	if p.Status != task.ProjectActive {
		status = " " + warnStyle.Render(string(p.Status))
	}
	return fmt.Sprintf("[%s] %s%s %s\n", p.ID, colored(p.Color).Render(p.Name), status, dimStyle.Render(fmt.Sprintf("(%d open)", open)))
}

// FormatTags lists tags.
func (f *HumanFormatter) FormatTags(tags []*task.Tag) string {
	if len(tags) == 0 {
		return "No tags found.\n"
	}
	var sb strings.Builder
	for _, tag := range tags {
		fmt.Fprintf(&sb, "[%s] %s\n", tag.ID, colored(tag.Color).Render("#"+tag.Name))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t *task.Task) string {
	var extra []string
	if !t.ScheduledDate.IsZero() {
		when := "on " + t.ScheduledDate.String()
		if !t.ScheduledTime.IsZero() {
			when += " @" + string(t.ScheduledTime)
		}
		extra = append(extra, when)
	}
	if !t.DueDate.IsZero() {
		extra = append(extra, "due "+t.DueDate.String())
	}
	if len(t.BlockedBy) > 0 {
		extra = append(extra, "blocked by: "+strings.Join(t.BlockedBy, ", "))
	}
	suffix := ""
	if len(extra) > 0 {
		suffix = " " + dimStyle.Render("("+strings.Join(extra, "; ")+")")
	}

	name := t.Name
	if t.IsDone() {
		name = doneStyle.Render(name)
	}
	return fmt.Sprintf("%s %s [%s] %s%s\n", f.statusIcon(t.Status), f.priorityMark(t.Priority), t.ID, name, suffix)
}

func (f *HumanFormatter) statusIcon(s task.Status) string {
	switch s {
	case task.StatusTodo:
		return "[ ]"
	case task.StatusReady:
		return "[>]"
	case task.StatusInProgress:
		return "[*]"
	case task.StatusWaiting:
		return "[~]"
	case task.StatusReview:
		return "[r]"
	case task.StatusDone:
		return "[X]"
	default:
		return "[?]"
	}
}

func (f *HumanFormatter) priorityMark(p task.Priority) string {
	switch p {
	case task.PriorityUrgent:
		return urgentStyle.Render("P0")
	case task.PriorityHigh:
		return highStyle.Render("P1")
	case task.PriorityMedium:
		return mediumStyle.Render("P2")
	case task.PriorityLow:
		return "P3"
	default:
		return dimStyle.Render("--")
	}
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return errorStyle.Render("Error:") + " " + err.Error() + "\n"
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

// FormatGraph formats a dependency graph as ASCII art.
func (f *HumanFormatter) FormatGraph(nodes []GraphNode) string {
	if len(nodes) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, node := range nodes {
		f.formatGraphNode(&sb, node, "", true, true)
	}
	return sb.String()
}

func (f *HumanFormatter) formatGraphNode(sb *strings.Builder, node GraphNode, prefix string, isLast, isRoot bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if isRoot {
		connector = ""
	}

	fmt.Fprintf(sb, "%s%s%s [%s] %s\n", prefix, connector, f.statusIcon(node.Task.Status), node.Task.ID, node.Task.Name)

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	for i, child := range node.Children {
		f.formatGraphNode(sb, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func joinIDs(tasks []*task.Task) string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return strings.Join(ids, ", ")
}

func colored(hex string) lipgloss.Style {
	if hex == "" {
		return defaultStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
