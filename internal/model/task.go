package model

import "github.com/google/uuid"

// Task is the domain model for a todo entry.
// ID and Description never change once the registry hands the task out;
// only Done moves, and only through the registry.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
}

func (t Task) String() string {
	if t.Done {
		return "[X] " + t.Description
	}
	return "[ ] " + t.Description
}
