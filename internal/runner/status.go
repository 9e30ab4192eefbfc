package runner

import "time"

// Status: снимок состояния цикла для /statusz и консоли.
type Status struct {
	Running    bool      `json:"running"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	LastFetch  time.Time `json:"last_fetch,omitempty"`
	ErrorCount int       `json:"error_count"`
	SentCount  int       `json:"sent_count"`
	Next       *Upcoming `json:"next,omitempty"`
}

func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.status
	if st.Next != nil {
		next := *st.Next
		st.Next = &next
	}
	return st
}

func (r *Runner) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Running {
		return false
	}
	r.status = Status{Running: true, StartedAt: r.clock.Now()}
	return true
}

func (r *Runner) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Running = false
	r.status.Next = nil
}

func (r *Runner) sync(l *loop) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.LastFetch = l.lastFetch
	r.status.ErrorCount = l.errCount
	r.status.SentCount = l.tracker.SentCount()
	if u, ok := l.tracker.Next(); ok {
		r.status.Next = &u
	} else {
		r.status.Next = nil
	}
}
