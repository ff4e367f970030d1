package match

import "testing"

func stagePtr(s Stage) *Stage   { return &s }
func cmdPtr(c Command) *Command { return &c }
func u32Ptr(v uint32) *uint32   { return &v }

func midHalfState() MatchState {
	s := NewMatchState()
	s.Stage = StageNormalFirstHalf
	s.Command = CommandHalt
	s.CommandCounter = 5
	return s
}

func TestMultipleActionsRejected(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{
			name: "stage and command",
			req:  Request{MessageID: 1, Stage: stagePtr(StageNormalHalfTime), Command: cmdPtr(CommandStop)},
		},
		{
			name: "command and card",
			req: Request{
				MessageID: 2,
				Command:   cmdPtr(CommandStop),
				Card:      &Card{Type: CardYellow, Team: TeamBlue},
			},
		},
		{
			name: "stage and card",
			req: Request{
				MessageID: 3,
				Stage:     stagePtr(StageNormalHalfTime),
				Card:      &Card{Type: CardRed, Team: TeamYellow},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, delta := Validate(midHalfState(), tc.req)
			if outcome != OutcomeMultipleActions {
				t.Fatalf("outcome: got %v want MULTIPLE_ACTIONS", outcome)
			}
			if !delta.Empty() {
				t.Fatalf("rejection must carry an empty delta: %+v", delta)
			}
		})
	}
}

func TestCommandCounterGuard(t *testing.T) {
	s := midHalfState()

	outcome, _ := Validate(s, Request{MessageID: 1, Command: cmdPtr(CommandStop), LastCounter: u32Ptr(4)})
	if outcome != OutcomeBadCommandCounter {
		t.Fatalf("stale counter: got %v want BAD_COMMAND_COUNTER", outcome)
	}

	outcome, _ = Validate(s, Request{MessageID: 2, Command: cmdPtr(CommandStop), LastCounter: u32Ptr(5)})
	if outcome != OutcomeOK {
		t.Fatalf("matching counter: got %v want OK", outcome)
	}

	// Absent counter skips the guard entirely.
	outcome, _ = Validate(s, Request{MessageID: 3, Command: cmdPtr(CommandStop)})
	if outcome != OutcomeOK {
		t.Fatalf("absent counter: got %v want OK", outcome)
	}
}

func TestHeartbeatIsAcceptedAndEmpty(t *testing.T) {
	s := midHalfState()
	for i := 0; i < 2; i++ {
		outcome, delta := Validate(s, Request{MessageID: uint32(i)})
		if outcome != OutcomeOK {
			t.Fatalf("heartbeat %d: got %v want OK", i, outcome)
		}
		if !delta.Empty() {
			t.Fatalf("heartbeat %d produced a delta: %+v", i, delta)
		}
	}
}

func TestStartedStagesUnreachableByAssignment(t *testing.T) {
	for _, target := range []Stage{
		StageNormalFirstHalf, StageNormalSecondHalf,
		StageExtraFirstHalf, StageExtraSecondHalf,
	} {
		outcome, _ := Validate(NewMatchState(), Request{MessageID: 1, Stage: stagePtr(target)})
		if outcome != OutcomeBadStage {
			t.Fatalf("stage %v: got %v want BAD_STAGE", target, outcome)
		}
	}
}

func TestStageTransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		from    Stage
		to      Stage
		outcome Outcome
	}{
		{"first half to half time", StageNormalFirstHalf, StageNormalHalfTime, OutcomeOK},
		{"half time to second half pre", StageNormalHalfTime, StageNormalSecondHalfPre, OutcomeOK},
		{"second half to post game", StageNormalSecondHalf, StagePostGame, OutcomeOK},
		{"second half to shootout break", StageNormalSecondHalf, StagePenaltyShootoutBreak, OutcomeOK},
		{"shootout break to shootout", StagePenaltyShootoutBreak, StagePenaltyShootout, OutcomeOK},
		{"backwards jump", StageNormalSecondHalf, StageNormalHalfTime, OutcomeBadStage},
		{"skip ahead", StageNormalFirstHalfPre, StagePostGame, OutcomeBadStage},
		{"post game is terminal", StagePostGame, StageNormalFirstHalfPre, OutcomeBadStage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewMatchState()
			s.Stage = tc.from
			outcome, _ := Validate(s, Request{MessageID: 1, Stage: stagePtr(tc.to)})
			if outcome != tc.outcome {
				t.Fatalf("got %v want %v", outcome, tc.outcome)
			}
		})
	}
}

func TestCommandContextTable(t *testing.T) {
	stopped := NewMatchState()
	stopped.Command = CommandStop

	halted := NewMatchState()
	halted.Command = CommandHalt

	kickoffPrepared := NewMatchState()
	kickoffPrepared.Command = CommandPrepareKickoffYellow

	halfTimeStopped := NewMatchState()
	halfTimeStopped.Stage = StageNormalHalfTime
	halfTimeStopped.Command = CommandStop

	cases := []struct {
		name    string
		state   MatchState
		cmd     Command
		outcome Outcome
	}{
		{"halt always valid", kickoffPrepared, CommandHalt, OutcomeOK},
		{"stop always valid", halted, CommandStop, OutcomeOK},
		{"free kick from stop", stopped, CommandDirectFreeBlue, OutcomeOK},
		{"free kick while halted", halted, CommandDirectFreeBlue, OutcomeBadCommand},
		{"kickoff prepare from stop", stopped, CommandPrepareKickoffYellow, OutcomeOK},
		{"normal start after prepare", kickoffPrepared, CommandNormalStart, OutcomeOK},
		{"normal start from stop", stopped, CommandNormalStart, OutcomeBadCommand},
		{"force start from stop", stopped, CommandForceStart, OutcomeOK},
		{"force start while halted", halted, CommandForceStart, OutcomeBadCommand},
		{"free kick during half time", halfTimeStopped, CommandIndirectFreeYellow, OutcomeBadCommand},
		{"goal from stop", stopped, CommandGoalBlue, OutcomeOK},
		{"timeout from stop", stopped, CommandTimeoutYellow, OutcomeOK},
		{"fresh timeout while halted", halted, CommandTimeoutYellow, OutcomeBadCommand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, _ := Validate(tc.state, Request{MessageID: 1, Command: cmdPtr(tc.cmd)})
			if outcome != tc.outcome {
				t.Fatalf("got %v want %v", outcome, tc.outcome)
			}
		})
	}
}

func TestDesignatedPositionXorRule(t *testing.T) {
	stopped := NewMatchState()
	stopped.Command = CommandStop

	outcome, _ := Validate(stopped, Request{MessageID: 1, Command: cmdPtr(CommandBallPlacementYellow)})
	if outcome != OutcomeBadDesignatedPosition {
		t.Fatalf("placement without position: got %v want BAD_DESIGNATED_POSITION", outcome)
	}

	outcome, _ = Validate(stopped, Request{
		MessageID: 2,
		Command:   cmdPtr(CommandForceStart),
		Position:  &Point{X: 0, Y: 0},
	})
	if outcome != OutcomeBadDesignatedPosition {
		t.Fatalf("position on non-placement command: got %v want BAD_DESIGNATED_POSITION", outcome)
	}

	outcome, delta := Validate(stopped, Request{
		MessageID: 3,
		Command:   cmdPtr(CommandBallPlacementBlue),
		Position:  &Point{X: 1500, Y: -200},
	})
	if outcome != OutcomeOK {
		t.Fatalf("placement with position: got %v want OK", outcome)
	}
	if delta.Position == nil || delta.Position.X != 1500 || delta.Position.Y != -200 {
		t.Fatalf("delta position mismatch: %+v", delta.Position)
	}
}

func TestCardIssuance(t *testing.T) {
	s := midHalfState()
	outcome, delta := Validate(s, Request{MessageID: 1, Card: &Card{Type: CardYellow, Team: TeamBlue}})
	if outcome != OutcomeOK {
		t.Fatalf("card in first half: got %v want OK", outcome)
	}
	if delta.Card == nil || delta.Command != nil {
		t.Fatalf("card delta malformed: %+v", delta)
	}

	post := NewMatchState()
	post.Stage = StagePostGame
	outcome, _ = Validate(post, Request{MessageID: 2, Card: &Card{Type: CardRed, Team: TeamYellow}})
	if outcome != OutcomeBadCard {
		t.Fatalf("card post game: got %v want BAD_CARD", outcome)
	}
}

func TestTimeoutClockLifecycle(t *testing.T) {
	store := NewStore(midHalfState())

	// STOP, then a yellow timeout.
	if outcome, _, _ := store.Submit(Request{MessageID: 1, Command: cmdPtr(CommandStop)}); outcome != OutcomeOK {
		t.Fatalf("stop: %v", outcome)
	}
	if outcome, _, _ := store.Submit(Request{MessageID: 2, Command: cmdPtr(CommandTimeoutYellow)}); outcome != OutcomeOK {
		t.Fatalf("timeout: %v", outcome)
	}
	snap := store.Snapshot()
	if !snap.State.Timeout.Active || !snap.State.Timeout.Running || snap.State.Timeout.Team != TeamYellow {
		t.Fatalf("timeout not running: %+v", snap.State.Timeout)
	}
	if snap.State.Yellow.TimeoutsTaken != 1 {
		t.Fatalf("timeouts taken: got %d want 1", snap.State.Yellow.TimeoutsTaken)
	}

	// HALT pauses without ending or recounting.
	if outcome, _, _ := store.Submit(Request{MessageID: 3, Command: cmdPtr(CommandHalt)}); outcome != OutcomeOK {
		t.Fatalf("halt: %v", outcome)
	}
	snap = store.Snapshot()
	if !snap.State.Timeout.Active || snap.State.Timeout.Running {
		t.Fatalf("halt should pause, not end: %+v", snap.State.Timeout)
	}

	// The other team cannot take over a paused timeout.
	if outcome, _, _ := store.Submit(Request{MessageID: 4, Command: cmdPtr(CommandTimeoutBlue)}); outcome != OutcomeBadCommand {
		t.Fatalf("blue takeover: got %v want BAD_COMMAND", outcome)
	}

	// The owning team resumes; count stays at one.
	if outcome, _, _ := store.Submit(Request{MessageID: 5, Command: cmdPtr(CommandTimeoutYellow)}); outcome != OutcomeOK {
		t.Fatalf("resume: %v", outcome)
	}
	snap = store.Snapshot()
	if !snap.State.Timeout.Running || snap.State.Yellow.TimeoutsTaken != 1 {
		t.Fatalf("resume broke clock or count: %+v taken=%d", snap.State.Timeout, snap.State.Yellow.TimeoutsTaken)
	}

	// STOP ends it.
	if outcome, _, _ := store.Submit(Request{MessageID: 6, Command: cmdPtr(CommandStop)}); outcome != OutcomeOK {
		t.Fatalf("stop: %v", outcome)
	}
	snap = store.Snapshot()
	if snap.State.Timeout.Active || snap.State.Timeout.Running {
		t.Fatalf("stop should end the timeout: %+v", snap.State.Timeout)
	}
}

func TestStartCommandEntersHalfStage(t *testing.T) {
	s := NewMatchState()
	s.Command = CommandPrepareKickoffBlue

	outcome, delta := Validate(s, Request{MessageID: 1, Command: cmdPtr(CommandNormalStart)})
	if outcome != OutcomeOK {
		t.Fatalf("normal start: %v", outcome)
	}
	if delta.Stage == nil || *delta.Stage != StageNormalFirstHalf {
		t.Fatalf("normal start should begin the half: %+v", delta.Stage)
	}
}
