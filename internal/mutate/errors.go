package mutate

import (
	"errors"
	"fmt"
)

var ErrTitleRequired = errors.New("task title is required")

// InFlightError rejects a second mutation for a task while one is pending.
// Mutations on one task are never interleaved.
type InFlightError struct {
	TaskID string
}

func (e InFlightError) Error() string {
	return fmt.Sprintf("task %s has a pending mutation", e.TaskID)
}

type NotFoundError struct {
	TaskID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}
