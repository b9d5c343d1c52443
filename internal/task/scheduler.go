package task

// Handle identifies a task started on a Scheduler.
type Handle uint64

type entry struct {
	id      Handle
	task    Task
	stopped bool
}

// Scheduler owns a set of running tasks and steps them once per Tick.
// Tasks started during a Tick first run on the following Tick. A stopped
// task is never stepped again, even when stopped mid-Tick.
type Scheduler struct {
	next    Handle
	running []*entry
	pending []*entry
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Start schedules t and returns its handle.
func (s *Scheduler) Start(t Task) Handle {
	s.next++
	s.pending = append(s.pending, &entry{id: s.next, task: t})
	return s.next
}

// Stop cancels a task. Unknown or finished handles are ignored.
func (s *Scheduler) Stop(h Handle) {
	for _, e := range s.running {
		if e.id == h {
			e.stopped = true
		}
	}
	for _, e := range s.pending {
		if e.id == h {
			e.stopped = true
		}
	}
}

// StopAll cancels every task.
func (s *Scheduler) StopAll() {
	for _, e := range s.running {
		e.stopped = true
	}
	for _, e := range s.pending {
		e.stopped = true
	}
}

// Running reports whether the task behind h is still scheduled.
func (s *Scheduler) Running(h Handle) bool {
	for _, e := range s.running {
		if e.id == h && !e.stopped {
			return true
		}
	}
	for _, e := range s.pending {
		if e.id == h && !e.stopped {
			return true
		}
	}
	return false
}

// Len returns the number of live tasks.
func (s *Scheduler) Len() int {
	n := 0
	for _, e := range s.running {
		if !e.stopped {
			n++
		}
	}
	for _, e := range s.pending {
		if !e.stopped {
			n++
		}
	}
	return n
}

// Tick steps every live task once.
func (s *Scheduler) Tick(f Frame) {
	s.running = append(s.running, s.pending...)
	s.pending = nil

	for _, e := range s.running {
		if e.stopped {
			continue
		}
		if e.task.Step(f) {
			e.stopped = true
		}
	}

	live := s.running[:0]
	for _, e := range s.running {
		if !e.stopped {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(s.running); i++ {
		s.running[i] = nil
	}
	s.running = live
}
