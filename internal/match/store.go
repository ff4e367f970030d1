package match

import "sync"

// Snapshot is an immutable copy of the match state at one point in time,
// tagged with a broadcast generation number.
type Snapshot struct {
	Generation uint64     `json:"generation"`
	State      MatchState `json:"state"`
}

// Store owns the authoritative MatchState. All mutation goes through
// Submit, which runs validate-then-apply as one critical section so that
// no two requests can both observe the same command counter and both be
// accepted.
type Store struct {
	mu         sync.Mutex
	state      MatchState
	generation uint64
}

func NewStore(initial MatchState) *Store {
	return &Store{state: initial}
}

// Snapshot returns a deep copy; callers never see a live reference.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Generation: s.generation, State: s.state.clone()}
}

// Submit validates req against the current state and, on acceptance of a
// non-empty delta, applies it atomically. The returned snapshot reflects
// the post-apply state; applied is false for rejections and heartbeats.
func (s *Store) Submit(req Request) (outcome Outcome, snap Snapshot, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, delta := Validate(s.state, req)
	if outcome != OutcomeOK {
		return outcome, s.snapshotLocked(), false
	}
	if delta.Empty() {
		return OutcomeOK, s.snapshotLocked(), false
	}

	s.applyLocked(delta)
	s.generation++
	return OutcomeOK, s.snapshotLocked(), true
}

func (s *Store) applyLocked(d Delta) {
	if d.Stage != nil {
		s.state.Stage = *d.Stage
	}
	if d.Command != nil {
		s.state.Command = *d.Command
		s.state.CommandCounter++
		if d.Position != nil {
			p := *d.Position
			s.state.Placement = &p
		} else if d.ClearPosition {
			s.state.Placement = nil
		}
	}
	if d.GoalFor != nil {
		s.state.TeamInfoFor(*d.GoalFor).Goals++
	}
	if d.StartTimeout != nil {
		s.state.TeamInfoFor(*d.StartTimeout).TimeoutsTaken++
		s.state.Timeout = TimeoutClock{Team: *d.StartTimeout, Active: true, Running: true}
	}
	if d.ResumeTimeout != nil {
		s.state.Timeout.Running = true
	}
	if d.PauseTimeout {
		s.state.Timeout.Running = false
	}
	if d.EndTimeout {
		s.state.Timeout = TimeoutClock{}
	}
	if d.Card != nil {
		info := s.state.TeamInfoFor(d.Card.Team)
		info.ActiveCards = append(info.ActiveCards, d.Card.Type)
		info.CardHistory = append(info.CardHistory, d.Card.Type)
	}
}
