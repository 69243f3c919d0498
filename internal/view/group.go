package view

import (
	"sort"

	"github.com/abatilo/agenda/internal/index"
	"github.com/abatilo/agenda/internal/task"
)

// Due-date bucket keys. Any other bucket key is a literal YYYY-MM-DD date.
const (
	BucketOverdue = "overdue"
	BucketToday   = "today"
	BucketNoDate  = "no-date"
)

// DueBucket returns the due-date bucket for t relative to today.
func DueBucket(t *task.Task, today task.Date) string {
	switch {
	case t.DueDate.IsZero():
		return BucketNoDate
	case t.DueDate == today:
		return BucketToday
	case t.DueDate.Before(today):
		return BucketOverdue
	default:
		return t.DueDate.String()
	}
}

// group partitions tasks, preserving their order inside each bucket.
// Buckets never come back empty.
func group(idx *index.Index, tasks []*task.Task, key GroupKey, today task.Date) []Group {
	var groups []Group
	pos := map[string]int{}
	rank := map[string]int{}

	for _, t := range tasks {
		k, label, r := bucketOf(idx, t, key, today)
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			rank[k] = r
			groups = append(groups, Group{Key: k, Label: label})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := rank[groups[i].Key], rank[groups[j].Key]
		if ri != rj {
			return ri < rj
		}
		// Equal rank only happens for literal dates.
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// bucketOf returns the bucket key, its label, and its ordering rank.
func bucketOf(idx *index.Index, t *task.Task, key GroupKey, today task.Date) (string, string, int) {
	switch key {
	case GroupPriority:
		return string(t.Priority), string(t.Priority), task.PriorityOrder(t.Priority)
	case GroupStatus:
		return string(t.Status), string(t.Status), task.StatusOrder(t.Status)
	case GroupProject:
		e, _ := idx.Entry(t.ID)
		if e.Project == nil {
			return "", "(none)", len(idx.Store().Projects)
		}
		return e.Project.ID, e.Project.Name, idx.Store().ProjectRank(e.Project.ID)
	case GroupDue:
		b := DueBucket(t, today)
		switch b {
		case BucketOverdue:
			return b, "Overdue", 0
		case BucketToday:
			return b, "Today", 1
		case BucketNoDate:
			return b, "No date", 3
		default:
			return b, b, 2
		}
	default:
		return "", "", 0
	}
}
