// Package policy holds the task ownership rule applied by get, update and delete.
package policy

import (
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
)

type Decision int

const (
	Allow Decision = iota
	NotFound
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Decide checks existence before ownership, so a missing task is NotFound for every caller.
// task is nil when the store has no record for the requested id.
func Decide(task *entity.Task, userID string) Decision {
	if task == nil {
		return NotFound
	}
	if !task.OwnedBy(userID) {
		return Forbidden
	}
	return Allow
}

// Err converts a denial into the matching typed error; Allow yields nil.
func (d Decision) Err() error {
	switch d {
	case NotFound:
		return apperror.NotFound("task not found")
	case Forbidden:
		return apperror.Forbidden("not authorized to access this task")
	}
	return nil
}
