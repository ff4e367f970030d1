package match

// Outcome is the definitive result of adjudicating one request. The
// numeric values are the wire encoding.
type Outcome uint8

const (
	OutcomeOK                    Outcome = 0
	OutcomeMultipleActions       Outcome = 1
	OutcomeBadStage              Outcome = 2
	OutcomeBadCommand            Outcome = 3
	OutcomeBadDesignatedPosition Outcome = 4
	OutcomeBadCommandCounter     Outcome = 5
	OutcomeBadCard               Outcome = 6
	OutcomeNoMajority            Outcome = 7
	OutcomeCommunicationFailed   Outcome = 8
)

func (o Outcome) Valid() bool {
	return o <= OutcomeCommunicationFailed
}

func (o Outcome) String() string {
	names := [...]string{
		"OK", "MULTIPLE_ACTIONS", "BAD_STAGE", "BAD_COMMAND",
		"BAD_DESIGNATED_POSITION", "BAD_COMMAND_COUNTER", "BAD_CARD",
		"NO_MAJORITY", "COMMUNICATION_FAILED",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return "UNKNOWN"
}

// Request is one decoded remote-control request. Optional fields are nil
// when absent on the wire; MessageID is an opaque correlation token.
type Request struct {
	MessageID        uint32
	Stage            *Stage
	Command          *Command
	Position         *Point
	Card             *Card
	LastCounter      *uint32
	ImplementationID string
	GameEvent        string
}

// Reply correlates one outcome to one request.
type Reply struct {
	MessageID uint32
	Outcome   Outcome
}

// Delta is a precomputed, already-validated mutation. It is applied
// whole or not at all.
type Delta struct {
	Stage         *Stage
	Command       *Command
	Position      *Point
	ClearPosition bool
	Card          *Card

	GoalFor       *Team
	StartTimeout  *Team
	ResumeTimeout *Team
	PauseTimeout  bool
	EndTimeout    bool
}

// Empty reports whether applying d would change nothing (a heartbeat).
func (d Delta) Empty() bool {
	return d.Stage == nil && d.Command == nil && d.Card == nil
}

// Validate adjudicates req against s and computes the resulting delta.
// It is pure: s is never mutated, and a non-OK outcome always comes with
// an empty delta. Callers must hold exclusive access to the state for the
// whole validate-then-apply sequence.
func Validate(s MatchState, req Request) (Outcome, Delta) {
	actions := 0
	if req.Stage != nil {
		actions++
	}
	if req.Command != nil {
		actions++
	}
	if req.Card != nil {
		actions++
	}
	if actions > 1 {
		return OutcomeMultipleActions, Delta{}
	}

	// Opt-in race guard: skipped entirely when the client sent no counter.
	if req.LastCounter != nil && *req.LastCounter != s.CommandCounter {
		return OutcomeBadCommandCounter, Delta{}
	}

	switch {
	case req.Stage != nil:
		if req.Position != nil {
			return OutcomeBadDesignatedPosition, Delta{}
		}
		target := *req.Stage
		if !StageAssignable(s.Stage, target) {
			return OutcomeBadStage, Delta{}
		}
		return OutcomeOK, Delta{Stage: req.Stage}

	case req.Command != nil:
		return validateCommand(s, *req.Command, req.Position)

	case req.Card != nil:
		if !cardAllowed(s) {
			return OutcomeBadCard, Delta{}
		}
		if req.Position != nil {
			return OutcomeBadDesignatedPosition, Delta{}
		}
		return OutcomeOK, Delta{Card: req.Card}

	default:
		// Heartbeat: elicit a reply, change nothing.
		if req.Position != nil {
			return OutcomeBadDesignatedPosition, Delta{}
		}
		return OutcomeOK, Delta{}
	}
}

func validateCommand(s MatchState, cmd Command, pos *Point) (Outcome, Delta) {
	if !commandAllowed(s, cmd) {
		return OutcomeBadCommand, Delta{}
	}
	if cmd.BallPlacement() != (pos != nil) {
		return OutcomeBadDesignatedPosition, Delta{}
	}

	c := cmd
	d := Delta{Command: &c}
	if pos != nil {
		p := *pos
		d.Position = &p
	} else {
		d.ClearPosition = true
	}

	switch cmd {
	case CommandHalt:
		if s.Timeout.Active && s.Timeout.Running {
			d.PauseTimeout = true
		}
	case CommandStop:
		if s.Timeout.Active {
			d.EndTimeout = true
		}
	case CommandTimeoutYellow, CommandTimeoutBlue:
		team, _ := cmd.Team()
		if s.Timeout.Active && s.Timeout.Team == team {
			d.ResumeTimeout = &team
		} else {
			d.StartTimeout = &team
		}
	case CommandGoalYellow, CommandGoalBlue:
		team, _ := cmd.Team()
		d.GoalFor = &team
	case CommandNormalStart, CommandForceStart:
		if half, ok := startedSuccessor(s.Stage); ok {
			h := half
			d.Stage = &h
		}
	}
	return OutcomeOK, d
}

// commandAllowed is the (stage, command) context table. HALT and STOP are
// always in order; everything else needs the right current command and a
// stage in which it makes sense.
func commandAllowed(s MatchState, cmd Command) bool {
	switch cmd {
	case CommandHalt, CommandStop:
		return true

	case CommandTimeoutYellow, CommandTimeoutBlue:
		if s.Stage == StagePostGame {
			return false
		}
		team, _ := cmd.Team()
		if s.Command == CommandHalt {
			// Resuming a timeout HALT paused; a fresh one needs STOP.
			return s.Timeout.Active && s.Timeout.Team == team
		}
		return s.Command == CommandStop

	case CommandGoalYellow, CommandGoalBlue:
		if s.Stage == StagePostGame {
			return false
		}
		return s.Command == CommandStop || s.Command == CommandHalt

	case CommandNormalStart:
		switch s.Command {
		case CommandPrepareKickoffYellow, CommandPrepareKickoffBlue,
			CommandPreparePenaltyYellow, CommandPreparePenaltyBlue:
			return true
		}
		return false

	default:
		// FORCE_START, prepares, free kicks, ball placement.
		return s.Command == CommandStop && StagePlayable(s.Stage)
	}
}

func cardAllowed(s MatchState) bool {
	return s.Stage != StagePostGame
}
