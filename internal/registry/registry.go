// Package registry keeps an ordered, concurrency-safe list of tasks.
//
// Every operation runs under one mutex for the whole list, so readers never
// see a half-applied mutation. Callers only ever get copies of tasks; the
// registry is the single place where a task is created, marked done or
// removed.
package registry

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/tasks/internal/model"
)

type Registry struct {
	mu    sync.Mutex
	tasks []model.Task

	newID func() uuid.UUID
	log   *slog.Logger
}

// Option tunes a Registry at construction time.
type Option func(*Registry)

// WithLogger sets the logger used for debug output on mutations.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithIDGenerator replaces uuid.New as the source of task ids.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		newID: uuid.New,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load seeds a registry from a previously saved snapshot, keeping its order.
// Records with an empty description, a nil id or a repeated id are rejected.
func Load(tasks []model.Task, opts ...Option) (*Registry, error) {
	r := New(opts...)
	seen := make(map[uuid.UUID]struct{}, len(tasks))
	for i, t := range tasks {
		if err := checkText("description", t.Description); err != nil {
			return nil, err
		}
		if err := checkID(t.ID); err != nil {
			return nil, err
		}
		if _, dup := seen[t.ID]; dup {
			return nil, invalid("id", fmt.Sprintf("duplicate %s at position %d", t.ID, i+1))
		}
		seen[t.ID] = struct{}{}
	}
	r.tasks = append(make([]model.Task, 0, len(tasks)), tasks...)
	r.log.Debug("registry loaded", "tasks", len(r.tasks))
	return r, nil
}

// Add appends a new, not-done task and returns a copy of it.
func (r *Registry) Add(description string) (model.Task, error) {
	if err := checkText("description", description); err != nil {
		return model.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t := model.Task{ID: r.newID(), Description: description}
	r.tasks = append(r.tasks, t)
	r.log.Debug("task added", "id", t.ID, "description", description)
	return t, nil
}

// List returns a snapshot of all tasks in insertion order.
func (r *Registry) List() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append(make([]model.Task, 0, len(r.tasks)), r.tasks...)
}

// Len reports how many tasks the registry holds.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tasks)
}

// Find returns every task whose description equals description exactly.
// No match yields an empty, non-nil slice.
func (r *Registry) Find(description string) ([]model.Task, error) {
	if err := checkText("description", description); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	found := []model.Task{}
	for _, t := range r.tasks {
		if t.Description == description {
			found = append(found, t)
		}
	}
	return found, nil
}

// MarkDone sets Done on the first task with this description.
// Marking an already-done task reports true again.
func (r *Registry) MarkDone(description string) (bool, error) {
	if err := checkText("description", description); err != nil {
		return false, err
	}
	return r.markDone(func(t model.Task) bool { return t.Description == description }), nil
}

// MarkDoneByID sets Done on the task with this id.
func (r *Registry) MarkDoneByID(id uuid.UUID) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	return r.markDone(func(t model.Task) bool { return t.ID == id }), nil
}

// Remove deletes the first task with this description.
func (r *Registry) Remove(description string) (bool, error) {
	if err := checkText("description", description); err != nil {
		return false, err
	}
	return r.remove(func(t model.Task) bool { return t.Description == description }), nil
}

// RemoveByID deletes the task with this id.
func (r *Registry) RemoveByID(id uuid.UUID) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	return r.remove(func(t model.Task) bool { return t.ID == id }), nil
}

// -------------- internals ----------------

func (r *Registry) markDone(match func(model.Task) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(match)
	if i < 0 {
		return false
	}
	r.tasks[i].Done = true
	r.log.Debug("task done", "id", r.tasks[i].ID)
	return true
}

func (r *Registry) remove(match func(model.Task) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(match)
	if i < 0 {
		return false
	}
	id := r.tasks[i].ID
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	r.log.Debug("task removed", "id", id, "remaining", len(r.tasks))
	return true
}

// indexOf must be called with mu held.
func (r *Registry) indexOf(match func(model.Task) bool) int {
	for i, t := range r.tasks {
		if match(t) {
			return i
		}
	}
	return -1
}

func checkText(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return invalid(field, "must not be empty")
	}
	return nil
}

func checkID(id uuid.UUID) error {
	if id == uuid.Nil {
		return invalid("id", "must not be the nil UUID")
	}
	return nil
}
