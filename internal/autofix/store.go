package autofix

import (
	"sync"

	"github.com/sujikathir/gdev/pkg/types"
)

// DefaultRetention caps the number of tasks kept in memory.
const DefaultRetention = 256

// Store is an in-memory, capacity-bounded task registry. When full, the
// oldest terminal task is evicted to make room; in-flight tasks are never
// evicted.
type Store struct {
	mu       sync.Mutex
	tasks    map[string]types.AutoFixTask
	order    []string
	capacity int
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultRetention
	}
	return &Store{
		tasks:    map[string]types.AutoFixTask{},
		capacity: capacity,
	}
}

// Put registers a new task, evicting the oldest terminal task if the store
// is at capacity.
func (s *Store) Put(task types.AutoFixTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; !exists && len(s.tasks) >= s.capacity {
		s.evictLocked()
	}
	if _, exists := s.tasks[task.ID]; !exists {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task
}

// Update applies fn to the stored task. Updates to unknown or terminal
// tasks are ignored, so a finished task can never change again.
func (s *Store) Update(id string, fn func(*types.AutoFixTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.Status.Terminal() {
		return
	}
	fn(&task)
	s.tasks[id] = task
}

// Get returns a snapshot of the task.
func (s *Store) Get(id string) (types.AutoFixTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	return task, ok
}

// Count returns the number of tracked tasks.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) evictLocked() {
	for i, id := range s.order {
		if s.tasks[id].Status.Terminal() {
			delete(s.tasks, id)
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
