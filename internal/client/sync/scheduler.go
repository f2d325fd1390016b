package sync

// schedulerState tracks whether an attempt is running and whether another is owed.
type schedulerState int

const (
	stateIdle schedulerState = iota
	stateRunning
	stateRunningQueued
)

func (s schedulerState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateRunningQueued:
		return "running_queued"
	default:
		return "idle"
	}
}

// scheduler coalesces triggers so at most one attempt runs and at most
// one more is owed. It is owned by the run loop and not safe for concurrent use.
type scheduler struct {
	state schedulerState
}

// Trigger records a request for an attempt. Returns true if the caller must start one now.
func (s *scheduler) Trigger() bool {
	switch s.state {
	case stateIdle:
		s.state = stateRunning
		return true
	case stateRunning:
		s.state = stateRunningQueued
	}
	return false
}

// Complete records the end of an attempt. Returns true if the caller must start the owed rerun.
func (s *scheduler) Complete() bool {
	if s.state == stateRunningQueued {
		s.state = stateRunning
		return true
	}
	s.state = stateIdle
	return false
}

// Reset forgets any running or owed attempt.
func (s *scheduler) Reset() {
	s.state = stateIdle
}
