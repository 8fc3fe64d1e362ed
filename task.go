package calendar

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Xevion/go-calendar/internal"
	"github.com/Xevion/go-calendar/types"
)

// Task is a unit of work that can be scheduled into a Day. Its identity is the
// ID assigned at creation; two tasks holding equal data are still different tasks.
//
// A *Task may be assigned in several days at once; days never copy it.
type Task[T any] struct {
	id   uuid.UUID
	seq  int64
	data T
}

func NewTask[T any](data T) *Task[T] {
	return &Task[T]{
		id:   uuid.New(),
		seq:  internal.NextId(),
		data: data,
	}
}

// TaskFromRecord restores a task with the identity stored in r.
func TaskFromRecord[T any](r types.TaskRecord[T]) (*Task[T], error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q: %w", ErrInvalidTaskRecord, r.ID, err)
	}
	return &Task[T]{
		id:   id,
		seq:  internal.NextId(),
		data: r.Data,
	}, nil
}

func (t *Task[T]) ID() uuid.UUID {
	return t.id
}

// Seq is a process-unique number increasing with creation order. Unlike ID it
// is not preserved through records.
func (t *Task[T]) Seq() int64 {
	return t.seq
}

func (t *Task[T]) Data() T {
	return t.data
}

// Equal reports whether both tasks share an ID.
func (t *Task[T]) Equal(other *Task[T]) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.id == other.id
}

func (t *Task[T]) String() string {
	return fmt.Sprintf("Task{%s}", t.id)
}

func (t *Task[T]) Record() types.TaskRecord[T] {
	return types.TaskRecord[T]{ID: t.id.String(), Data: t.data}
}
