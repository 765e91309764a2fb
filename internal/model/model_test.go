package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{"USER", RoleUser, true},
		{"  admin ", RoleAdmin, true},
		{"", RoleUser, true},
		{"root", "", false},
	}
	for _, c := range cases {
		got, err := ParseRole(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("ParseRole(%q) err = %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseStatusAliases(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{"todo", StatusTodo},
		{"TO_DO", StatusTodo},
		{"to do", StatusTodo},
		{"in progress", StatusInProgress},
		{"doing", StatusInProgress},
		{"completed", StatusDone},
		{" done ", StatusDone},
	}
	for _, c := range cases {
		got, err := ParseStatus(c.in)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if _, err := ParseStatus("blocked"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Fatalf("expected error for empty status")
	}
}

func TestParsePriorityDefaultsToMedium(t *testing.T) {
	got, err := ParsePriority("")
	if err != nil || got != PriorityMedium {
		t.Fatalf("ParsePriority(\"\") = %q, %v", got, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusInProgress.Valid() {
		t.Fatalf("IN_PROGRESS should be valid")
	}
	if Status("ON_HOLD").Valid() {
		t.Fatalf("unknown status should be invalid")
	}
	if Status("").Valid() {
		t.Fatalf("empty status should be invalid")
	}
}

func TestDueDay(t *testing.T) {
	task := Task{DueDate: "2026-03-15"}
	day, ok := task.DueDay(time.UTC)
	if !ok {
		t.Fatalf("expected a parsed due day")
	}
	if day.Year() != 2026 || day.Month() != time.March || day.Day() != 15 {
		t.Fatalf("wrong day: %v", day)
	}
}

func TestDueDayToleratesTimestamps(t *testing.T) {
	task := Task{DueDate: "2026-03-15T10:30:00Z"}
	day, ok := task.DueDay(time.UTC)
	if !ok {
		t.Fatalf("timestamp due date should still parse")
	}
	if got := day.Format("2006-01-02"); got != "2026-03-15" {
		t.Fatalf("day = %s", got)
	}
}

func TestDueDayEmptyAndGarbage(t *testing.T) {
	if _, ok := (Task{}).DueDay(time.UTC); ok {
		t.Fatalf("empty due date should not parse")
	}
	if _, ok := (Task{DueDate: "  "}).DueDay(time.UTC); ok {
		t.Fatalf("blank due date should not parse")
	}
	if _, ok := (Task{DueDate: "next tuesday"}).DueDay(time.UTC); ok {
		t.Fatalf("garbage due date should not parse")
	}
}

func TestAssigneeFallback(t *testing.T) {
	if got := (Task{AssigneeName: "Ada Lovelace"}).Assignee(); got != "Ada Lovelace" {
		t.Fatalf("Assignee() = %q", got)
	}
	if got := (Task{AssigneeID: "u1"}).Assignee(); got != "Unassigned" {
		t.Fatalf("id without name should render Unassigned; got %q", got)
	}
	if got := (Task{AssigneeName: "   "}).Assignee(); got != "Unassigned" {
		t.Fatalf("blank name should render Unassigned; got %q", got)
	}
}

func TestFullNameFallsBackToUsername(t *testing.T) {
	u := UserAccount{Name: "Ada", Surname: "Lovelace", Username: "ada"}
	if got := u.FullName(); got != "Ada Lovelace" {
		t.Fatalf("FullName() = %q", got)
	}
	u = UserAccount{Username: "ada"}
	if got := u.FullName(); got != "ada" {
		t.Fatalf("FullName() = %q", got)
	}

	a := AdminAccount{FirstName: "Grace", LastName: "Hopper", Username: "grace"}
	if got := a.FullName(); got != "Grace Hopper" {
		t.Fatalf("FullName() = %q", got)
	}
	a = AdminAccount{Username: "grace"}
	if got := a.FullName(); got != "grace" {
		t.Fatalf("FullName() = %q", got)
	}
}

func TestSessionTokenNeverMarshalled(t *testing.T) {
	b, err := json.Marshal(Session{Username: "ada", Token: "secret"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) == "" || json.Valid(b) == false {
		t.Fatalf("bad json: %s", b)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, leaked := m["token"]; leaked {
		t.Fatalf("token leaked into json: %s", b)
	}
}
