package match

import "time"

// Team identifies one side of the match.
type Team uint8

const (
	TeamYellow Team = 0
	TeamBlue   Team = 1
)

func (t Team) Valid() bool {
	return t == TeamYellow || t == TeamBlue
}

func (t Team) String() string {
	switch t {
	case TeamYellow:
		return "YELLOW"
	case TeamBlue:
		return "BLUE"
	default:
		return "UNKNOWN"
	}
}

// Stage is the coarse phase of the match.
type Stage uint8

const (
	StageNormalFirstHalfPre   Stage = 0
	StageNormalFirstHalf      Stage = 1
	StageNormalHalfTime       Stage = 2
	StageNormalSecondHalfPre  Stage = 3
	StageNormalSecondHalf     Stage = 4
	StageExtraTimeBreak       Stage = 5
	StageExtraFirstHalfPre    Stage = 6
	StageExtraFirstHalf       Stage = 7
	StageExtraHalfTime        Stage = 8
	StageExtraSecondHalfPre   Stage = 9
	StageExtraSecondHalf      Stage = 10
	StagePenaltyShootoutBreak Stage = 11
	StagePenaltyShootout      Stage = 12
	StagePostGame             Stage = 13
)

func (s Stage) Valid() bool {
	return s <= StagePostGame
}

func (s Stage) String() string {
	names := [...]string{
		"NORMAL_FIRST_HALF_PRE", "NORMAL_FIRST_HALF", "NORMAL_HALF_TIME",
		"NORMAL_SECOND_HALF_PRE", "NORMAL_SECOND_HALF", "EXTRA_TIME_BREAK",
		"EXTRA_FIRST_HALF_PRE", "EXTRA_FIRST_HALF", "EXTRA_HALF_TIME",
		"EXTRA_SECOND_HALF_PRE", "EXTRA_SECOND_HALF", "PENALTY_SHOOTOUT_BREAK",
		"PENALTY_SHOOTOUT", "POST_GAME",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "UNKNOWN"
}

// Command is the fine-grained instruction currently in force.
type Command uint8

const (
	CommandHalt                 Command = 0
	CommandStop                 Command = 1
	CommandNormalStart          Command = 2
	CommandForceStart           Command = 3
	CommandPrepareKickoffYellow Command = 4
	CommandPrepareKickoffBlue   Command = 5
	CommandPreparePenaltyYellow Command = 6
	CommandPreparePenaltyBlue   Command = 7
	CommandDirectFreeYellow     Command = 8
	CommandDirectFreeBlue       Command = 9
	CommandIndirectFreeYellow   Command = 10
	CommandIndirectFreeBlue     Command = 11
	CommandTimeoutYellow        Command = 12
	CommandTimeoutBlue          Command = 13
	CommandGoalYellow           Command = 14
	CommandGoalBlue             Command = 15
	CommandBallPlacementYellow  Command = 16
	CommandBallPlacementBlue    Command = 17
)

func (c Command) Valid() bool {
	return c <= CommandBallPlacementBlue
}

func (c Command) String() string {
	names := [...]string{
		"HALT", "STOP", "NORMAL_START", "FORCE_START",
		"PREPARE_KICKOFF_YELLOW", "PREPARE_KICKOFF_BLUE",
		"PREPARE_PENALTY_YELLOW", "PREPARE_PENALTY_BLUE",
		"DIRECT_FREE_YELLOW", "DIRECT_FREE_BLUE",
		"INDIRECT_FREE_YELLOW", "INDIRECT_FREE_BLUE",
		"TIMEOUT_YELLOW", "TIMEOUT_BLUE",
		"GOAL_YELLOW", "GOAL_BLUE",
		"BALL_PLACEMENT_YELLOW", "BALL_PLACEMENT_BLUE",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "UNKNOWN"
}

// BallPlacement reports whether the command carries a designated position.
func (c Command) BallPlacement() bool {
	return c == CommandBallPlacementYellow || c == CommandBallPlacementBlue
}

// Team returns the team a team-scoped command addresses.
func (c Command) Team() (Team, bool) {
	switch c {
	case CommandPrepareKickoffYellow, CommandPreparePenaltyYellow,
		CommandDirectFreeYellow, CommandIndirectFreeYellow,
		CommandTimeoutYellow, CommandGoalYellow, CommandBallPlacementYellow:
		return TeamYellow, true
	case CommandPrepareKickoffBlue, CommandPreparePenaltyBlue,
		CommandDirectFreeBlue, CommandIndirectFreeBlue,
		CommandTimeoutBlue, CommandGoalBlue, CommandBallPlacementBlue:
		return TeamBlue, true
	default:
		return 0, false
	}
}

// CardType is the color of a disciplinary card.
type CardType uint8

const (
	CardYellow CardType = 0
	CardRed    CardType = 1
)

func (c CardType) Valid() bool {
	return c == CardYellow || c == CardRed
}

func (c CardType) String() string {
	switch c {
	case CardYellow:
		return "YELLOW"
	case CardRed:
		return "RED"
	default:
		return "UNKNOWN"
	}
}

// Point is a field position in millimetres.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Card is one disciplinary card issued to a team.
type Card struct {
	Type CardType `json:"type"`
	Team Team     `json:"team"`
}

// TeamInfo is the per-team match record.
type TeamInfo struct {
	Goals           int           `json:"goals"`
	TimeoutsTaken   int           `json:"timeouts_taken"`
	TimeoutTimeLeft time.Duration `json:"timeout_time_left"`
	ActiveCards     []CardType    `json:"active_cards"`
	CardHistory     []CardType    `json:"card_history"`
}

func (t TeamInfo) clone() TeamInfo {
	out := t
	out.ActiveCards = append([]CardType(nil), t.ActiveCards...)
	out.CardHistory = append([]CardType(nil), t.CardHistory...)
	return out
}

// TimeoutClock tracks the currently active timeout, if any. HALT pauses
// it without ending the timeout; STOP ends it.
type TimeoutClock struct {
	Team    Team `json:"team"`
	Active  bool `json:"active"`
	Running bool `json:"running"`
}

// MatchState is the authoritative match record. It is owned by a Store
// and mutated only inside its critical section.
type MatchState struct {
	Stage          Stage        `json:"stage"`
	Command        Command      `json:"command"`
	CommandCounter uint32       `json:"command_counter"`
	Placement      *Point       `json:"designated_position,omitempty"`
	Yellow         TeamInfo     `json:"yellow"`
	Blue           TeamInfo     `json:"blue"`
	Timeout        TimeoutClock `json:"timeout"`
}

// NewMatchState returns the state of a match that has not started:
// pre-game stage, HALT in force.
func NewMatchState() MatchState {
	return MatchState{
		Stage:   StageNormalFirstHalfPre,
		Command: CommandHalt,
		Yellow:  TeamInfo{TimeoutTimeLeft: defaultTimeoutBudget},
		Blue:    TeamInfo{TimeoutTimeLeft: defaultTimeoutBudget},
	}
}

const defaultTimeoutBudget = 5 * time.Minute

func (m MatchState) clone() MatchState {
	out := m
	out.Yellow = m.Yellow.clone()
	out.Blue = m.Blue.clone()
	if m.Placement != nil {
		p := *m.Placement
		out.Placement = &p
	}
	return out
}

// TeamInfoFor returns the record for t. The pointer is into m and is only
// safe to mutate inside the store's critical section.
func (m *MatchState) TeamInfoFor(t Team) *TeamInfo {
	if t == TeamBlue {
		return &m.Blue
	}
	return &m.Yellow
}
