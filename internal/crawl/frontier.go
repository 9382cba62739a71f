package crawl

import "sync"

// Task is a URL scheduled at a BFS depth.
type Task struct {
	URL   string
	Depth int
}

// Frontier is a FIFO queue of crawl tasks.
type Frontier struct {
	tasks []Task
	head  int
}

// Push appends a task to the back of the queue.
func (f *Frontier) Push(t Task) {
	f.tasks = append(f.tasks, t)
}

// Pop removes and returns the front task.
func (f *Frontier) Pop() (Task, bool) {
	if f.head >= len(f.tasks) {
		return Task{}, false
	}
	t := f.tasks[f.head]
	f.tasks[f.head] = Task{}
	f.head++
	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 64 && f.head*2 > len(f.tasks) {
		f.tasks = append([]Task(nil), f.tasks[f.head:]...)
		f.head = 0
	}
	return t, true
}

// Len returns the number of queued tasks.
func (f *Frontier) Len() int { return len(f.tasks) - f.head }

// VisitedSet records canonical URLs that have been dequeued. Safe for
// concurrent use.
type VisitedSet struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

// NewVisitedSet creates an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{urls: make(map[string]struct{})}
}

// MarkIfNotVisited adds url and reports whether it was new.
func (s *VisitedSet) MarkIfNotVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Contains reports whether url was visited.
func (s *VisitedSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.urls[url]
	return ok
}

// Len returns the number of visited URLs.
func (s *VisitedSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls)
}
