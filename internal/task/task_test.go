//nolint:testpackage // Tests require internal access for thorough testing
package task

import (
	"strings"
	"testing"
	"time"
)

func TestIsValidStatus(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusTodo, true},
		{StatusReady, true},
		{StatusInProgress, true},
		{StatusWaiting, true},
		{StatusReview, true},
		{StatusDone, true},
		{Status("open"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := IsValidStatus(tt.status); got != tt.valid {
				t.Errorf("IsValidStatus(%q) = %v, want %v", tt.status, got, tt.valid)
			}
		})
	}
}

func TestIsValidPriority(t *testing.T) {
	tests := []struct {
		priority Priority
		valid    bool
	}{
		{PriorityUrgent, true},
		{PriorityHigh, true},
		{PriorityMedium, true},
		{PriorityLow, true},
		{PriorityNone, true},
		{Priority("critical"), false},
		{Priority(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := IsValidPriority(tt.priority); got != tt.valid {
				t.Errorf("IsValidPriority(%q) = %v, want %v", tt.priority, got, tt.valid)
			}
		})
	}
}

func TestParseStatusAndPriority(t *testing.T) {
	statuses := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"todo", StatusTodo, true},
		{" In Progress ", StatusInProgress, true},
		{"in_progress", StatusInProgress, true},
		{"DONE", StatusDone, true},
		{"finished", "finished", false},
	}
	for _, tt := range statuses {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	priorities := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"urgent", PriorityUrgent, true},
		{"P1", PriorityHigh, true},
		{"p3", PriorityLow, true},
		{" None", PriorityNone, true},
		{"p4", "p4", false},
	}
	for _, tt := range priorities {
		got, ok := ParsePriority(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePriority(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPriorityOrder(t *testing.T) {
	for i := 1; i < len(Priorities); i++ {
		if PriorityOrder(Priorities[i-1]) >= PriorityOrder(Priorities[i]) {
			t.Errorf("%s should have lower order than %s", Priorities[i-1], Priorities[i])
		}
	}
	if PriorityOrder(Priority("bogus")) <= PriorityOrder(PriorityNone) {
		t.Error("unknown priority should sort after none")
	}
}

func TestSetStatusMaintainsCompletedAt(t *testing.T) {
	now := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	tk := &Task{ID: "t-1", Status: StatusTodo}

	tk.SetStatus(StatusDone, now)
	if tk.CompletedAt == nil || !tk.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt = %v, want %v", tk.CompletedAt, now)
	}

	// Re-completing keeps the original stamp
	tk.SetStatus(StatusDone, now.Add(time.Hour))
	if !tk.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt changed on repeated done: %v", tk.CompletedAt)
	}

	tk.SetStatus(StatusReview, now)
	if tk.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil after leaving done", tk.CompletedAt)
	}
}

func TestDateComparisons(t *testing.T) {
	d1, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	d2 := Date("2024-01-05")

	if !d1.Before(d2) || d2.Before(d1) {
		t.Error("2024-01-01 should be before 2024-01-05")
	}
	if !d2.After(d1) {
		t.Error("2024-01-05 should be after 2024-01-01")
	}
	if Date("").Before(d1) || d1.Before("") {
		t.Error("unset dates never compare before")
	}
	if got := d1.AddDays(4); got != d2 {
		t.Errorf("AddDays(4) = %s, want %s", got, d2)
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("expected error for invalid month")
	}
	if got := DateOf(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)); got != "2024-02-29" {
		t.Errorf("DateOf = %s, want 2024-02-29", got)
	}
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay failed: %v", err)
	}
	if got := tod.Minutes(); got != 570 {
		t.Errorf("Minutes() = %d, want 570", got)
	}
	if got := TimeOfDay("").Minutes(); got != -1 {
		t.Errorf("unset Minutes() = %d, want -1", got)
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Error("expected error for hour 25")
	}
}

func TestEnsureInbox(t *testing.T) {
	now := time.Now()
	s := NewStore()
	s.Projects = append(s.Projects, &Project{ID: "p-work", Name: "Work"})

	if s.Inbox() != nil {
		t.Fatal("new store should have no inbox")
	}

	inbox := s.EnsureInbox("p-inbox", now)
	if !inbox.IsInbox || inbox.Name != InboxName {
		t.Errorf("unexpected inbox %+v", inbox)
	}
	if s.Projects[0] != inbox {
		t.Error("inbox should be first in store order")
	}
	if again := s.EnsureInbox("p-other", now); again != inbox {
		t.Error("EnsureInbox should return the existing inbox")
	}
	if s.ProjectRank("p-work") != 1 {
		t.Errorf("ProjectRank(p-work) = %d, want 1", s.ProjectRank("p-work"))
	}
}

func TestGenerateID(t *testing.T) {
	now := time.Now()

	id := GenerateID(PrefixTask, "Test task", now, func(_ string) bool { return false })
	if !strings.HasPrefix(id, "t-") {
		t.Errorf("ID %q missing task prefix", id)
	}
	if suffix := strings.TrimPrefix(id, "t-"); len(suffix) < 3 || len(suffix) > 8 {
		t.Errorf("ID suffix length out of range: %s", id)
	}

	existingIDs := map[string]bool{}
	existsFn := func(id string) bool {
		return existingIDs[id]
	}

	id1 := GenerateID(PrefixProject, "Test", now, existsFn)
	existingIDs[id1] = true

	id2 := GenerateID(PrefixProject, "Different", now, existsFn)
	if id1 == id2 {
		t.Error("Expected different IDs for different seeds")
	}
}
