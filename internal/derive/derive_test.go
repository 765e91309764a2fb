package derive

import (
	"reflect"
	"testing"
	"time"

	"taskdeck/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeStatsOverdueBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "a", Title: "yesterday", Status: model.StatusTodo, DueDate: "2026-03-09"},
		{ID: "b", Title: "today", Status: model.StatusTodo, DueDate: "2026-03-10"},
		{ID: "c", Title: "tomorrow", Status: model.StatusTodo, DueDate: "2026-03-11"},
		{ID: "d", Title: "no date", Status: model.StatusInProgress},
	}

	st := ComputeStats(tasks, now)
	if st.Total != 4 {
		t.Fatalf("Total = %d, want 4", st.Total)
	}
	if st.Overdue != 1 {
		t.Fatalf("Overdue = %d, want 1 (only strictly-past due days count)", st.Overdue)
	}
	if st.InProgress != 1 {
		t.Fatalf("InProgress = %d, want 1", st.InProgress)
	}
}

func TestComputeStatsDoneNeverOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "a", Title: "late but done", Status: model.StatusDone, DueDate: "2020-01-01"},
	}
	st := ComputeStats(tasks, now)
	if st.Done != 1 {
		t.Fatalf("Done = %d, want 1", st.Done)
	}
	if st.Overdue != 0 {
		t.Fatalf("Overdue = %d, want 0: completed tasks are excluded", st.Overdue)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil, time.Now())
	if st != (Stats{}) {
		t.Fatalf("stats of empty collection = %+v, want zero", st)
	}
}

func TestFilterAndSortStatusAndSearch(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "Write report", Status: model.StatusTodo},
		{ID: "2", Title: "Review report", Status: model.StatusDone},
		{ID: "3", Title: "Ship build", Status: model.StatusTodo},
	}

	got := FilterAndSort(tasks, Query{StatusFilter: string(model.StatusTodo), SearchText: "REPORT"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("got %v, want only task 1", ids(got))
	}

	// "All" + empty search keeps everything, in collection order.
	got = FilterAndSort(tasks, Query{StatusFilter: StatusFilterAll})
	if !reflect.DeepEqual(ids(got), []string{"1", "2", "3"}) {
		t.Fatalf("got %v, want original order", ids(got))
	}
}

func TestFilterAndSortDueDateUndatedLast(t *testing.T) {
	tasks := []model.Task{
		{ID: "n", Title: "no date"},
		{ID: "b", Title: "later", DueDate: "2026-06-01"},
		{ID: "a", Title: "sooner", DueDate: "2026-05-01"},
	}
	got := FilterAndSort(tasks, Query{StatusFilter: StatusFilterAll, SortKey: SortByDueDate})
	if !reflect.DeepEqual(ids(got), []string{"a", "b", "n"}) {
		t.Fatalf("got %v, want dated-ascending then undated", ids(got))
	}
}

func TestFilterAndSortTitleStable(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "beta"},
		{ID: "2", Title: "alpha"},
		{ID: "3", Title: "alpha"},
	}
	got := FilterAndSort(tasks, Query{StatusFilter: StatusFilterAll, SortKey: SortByTitle})
	if !reflect.DeepEqual(ids(got), []string{"2", "3", "1"}) {
		t.Fatalf("got %v, want stable title order", ids(got))
	}
}

func TestFilterAndSortIdempotent(t *testing.T) {
	tasks := []model.Task{
		{ID: "b", Title: "b", DueDate: "2026-02-01", Status: model.StatusTodo},
		{ID: "a", Title: "a", DueDate: "2026-01-01", Status: model.StatusTodo},
	}
	q := Query{StatusFilter: StatusFilterAll, SortKey: SortByDueDate}
	once := FilterAndSort(tasks, q)
	twice := FilterAndSort(once, q)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second application changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestFilterAndSortDoesNotMutateInput(t *testing.T) {
	tasks := []model.Task{
		{ID: "b", Title: "b"},
		{ID: "a", Title: "a"},
	}
	FilterAndSort(tasks, Query{StatusFilter: StatusFilterAll, SortKey: SortByTitle})
	if tasks[0].ID != "b" {
		t.Fatalf("input slice was reordered")
	}
}

func TestRecent(t *testing.T) {
	tasks := []model.Task{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	if got := Recent(tasks, 2); len(got) != 2 || got[0].ID != "1" {
		t.Fatalf("Recent(2) = %v", ids(got))
	}
	if got := Recent(tasks, 10); len(got) != 3 {
		t.Fatalf("Recent(10) = %v, want all 3", ids(got))
	}
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		in    model.Status
		label string
		sev   Severity
	}{
		{model.StatusDone, "Done", SeveritySuccess},
		{model.StatusInProgress, "In Progress", SeverityWarning},
		{model.StatusTodo, "To Do", SeverityNeutral},
		{model.Status("ON_HOLD"), "On Hold", SeverityNeutral},
	}
	for _, c := range cases {
		label, sev := StatusLabel(c.in)
		if label != c.label || sev != c.sev {
			t.Fatalf("StatusLabel(%q) = %q/%q, want %q/%q", c.in, label, sev, c.label, c.sev)
		}
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
