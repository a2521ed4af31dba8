package panels

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownTask = errors.New("unknown task")

type Task struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Checklist is the daily protocol of one visit. Safe for concurrent use.
type Checklist struct {
	mu    sync.Mutex
	tasks []Task
}

func NewChecklist() *Checklist {
	return &Checklist{tasks: []Task{
		{ID: 1, Text: "7 AM Biometric Touch Scan", Completed: true},
		{ID: 2, Text: "Hydration Goal: 2.5L"},
		{ID: 3, Text: "Morning Yoga (Sun Salutations)", Completed: true},
		{ID: 4, Text: "Nutrition: High Protein Lunch"},
		{ID: 5, Text: "15 Min Focus Meditation"},
	}}
}

func (c *Checklist) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Task(nil), c.tasks...)
}

// Toggle flips the completion of task id and returns the updated task.
func (c *Checklist) Toggle(id int) (Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Completed = !c.tasks[i].Completed
			return c.tasks[i], nil
		}
	}
	return Task{}, fmt.Errorf("%w: %d", ErrUnknownTask, id)
}

// Progress returns completed and total counts.
func (c *Checklist) Progress() (done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.Completed {
			done++
		}
	}
	return done, len(c.tasks)
}
