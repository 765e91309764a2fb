package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// Session is the authenticated identity for the current client lifetime.
// Role and Username never change after authentication; profile fields may.
type Session struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`

	Phone         string `json:"phone,omitempty"`
	StudentNumber string `json:"studentNumber,omitempty"`
	IDNumber      string `json:"idNumber,omitempty"`

	Token string `json:"-"`
}

// ProfileUpdate carries the editable profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	DisplayName   *string `json:"displayName,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	StudentNumber *string `json:"studentNumber,omitempty"`
	IDNumber      *string `json:"idNumber,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TODO", "TO_DO", "TO DO":
		return StatusTodo, nil
	case "IN_PROGRESS", "IN PROGRESS", "DOING":
		return StatusInProgress, nil
	case "DONE", "COMPLETED":
		return StatusDone, nil
	default:
		return "", fmt.Errorf("invalid status: %q", s)
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return PriorityLow, nil
	case "MEDIUM", "":
		return PriorityMedium, nil
	case "HIGH":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority: %q", s)
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Attachment is metadata only; the file itself stays with the remote service.
type Attachment struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	// DueDate is a calendar date (YYYY-MM-DD); empty means no due date.
	DueDate string `json:"dueDate,omitempty"`

	// AssigneeID references a user account; empty renders as "Unassigned".
	AssigneeID   string `json:"assigneeId,omitempty"`
	AssigneeName string `json:"assigneeName,omitempty"`

	Comments    []string     `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// DueDay parses DueDate into a day-precision time in the given location.
// Returns false for empty or unparseable dates.
func (t Task) DueDay(loc *time.Location) (time.Time, bool) {
	d := strings.TrimSpace(t.DueDate)
	if d == "" {
		return time.Time{}, false
	}
	// Tolerate full timestamps from the server; the calendar day is what matters.
	if i := strings.IndexByte(d, 'T'); i > 0 {
		d = d[:i]
	}
	day, err := time.ParseInLocation("2006-01-02", d, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func (t Task) Assignee() string {
	if strings.TrimSpace(t.AssigneeName) != "" {
		return t.AssigneeName
	}
	return "Unassigned"
}

// TaskDraft is the user-entered portion of a new task.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"dueDate,omitempty"`
	AssigneeID  string   `json:"assigneeId,omitempty"`
}

// UserAccount is the admin-visible shape of a regular account.
type UserAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Phone         string `json:"phone,omitempty"`
	StudentNumber string `json:"studentNumber,omitempty"`
	IDNumber      string `json:"idNumber,omitempty"`
	Active        bool   `json:"active"`
}

func (u UserAccount) FullName() string {
	full := strings.TrimSpace(u.Name + " " + u.Surname)
	if full == "" {
		return u.Username
	}
	return full
}

type AdminAccount struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (a AdminAccount) FullName() string {
	full := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if full == "" {
		return a.Username
	}
	return full
}

// Registration is the payload for creating a new user account.
type Registration struct {
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Phone         string `json:"phone,omitempty"`
	StudentNumber string `json:"studentNumber,omitempty"`
	IDNumber      string `json:"idNumber,omitempty"`
}

// AdminRegistration is the payload for creating a new administrator account.
type AdminRegistration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}
