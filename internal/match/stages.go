package match

// startedStages are the stages a match enters by playing, never by direct
// assignment: a NORMAL_START (or FORCE_START) command moves the match out
// of the corresponding pre stage.
var startedStages = map[Stage]bool{
	StageNormalFirstHalf:  true,
	StageNormalSecondHalf: true,
	StageExtraFirstHalf:   true,
	StageExtraSecondHalf:  true,
}

// stageTransitions is the allowed direct-assignment table. The match only
// moves forward; half stages appear as sources (an operator ends a half by
// assigning the following break) but never as targets.
var stageTransitions = map[Stage][]Stage{
	StageNormalFirstHalfPre:   {StageNormalHalfTime},
	StageNormalFirstHalf:      {StageNormalHalfTime},
	StageNormalHalfTime:       {StageNormalSecondHalfPre},
	StageNormalSecondHalfPre:  {StageExtraTimeBreak, StagePenaltyShootoutBreak, StagePostGame},
	StageNormalSecondHalf:     {StageExtraTimeBreak, StagePenaltyShootoutBreak, StagePostGame},
	StageExtraTimeBreak:       {StageExtraFirstHalfPre},
	StageExtraFirstHalfPre:    {StageExtraHalfTime},
	StageExtraFirstHalf:       {StageExtraHalfTime},
	StageExtraHalfTime:        {StageExtraSecondHalfPre},
	StageExtraSecondHalfPre:   {StagePenaltyShootoutBreak, StagePostGame},
	StageExtraSecondHalf:      {StagePenaltyShootoutBreak, StagePostGame},
	StagePenaltyShootoutBreak: {StagePenaltyShootout},
	StagePenaltyShootout:      {StagePostGame},
	StagePostGame:             {},
}

// StageAssignable reports whether target may be set directly from current.
func StageAssignable(current, target Stage) bool {
	if startedStages[target] {
		return false
	}
	for _, next := range stageTransitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// startedSuccessor maps a pre stage to the half a start command begins.
func startedSuccessor(s Stage) (Stage, bool) {
	switch s {
	case StageNormalFirstHalfPre:
		return StageNormalFirstHalf, true
	case StageNormalSecondHalfPre:
		return StageNormalSecondHalf, true
	case StageExtraFirstHalfPre:
		return StageExtraFirstHalf, true
	case StageExtraSecondHalfPre:
		return StageExtraSecondHalf, true
	default:
		return 0, false
	}
}

// playableStages are the stages in which play-controlling commands
// (kickoffs, free kicks, force start, ball placement) make sense.
var playableStages = map[Stage]bool{
	StageNormalFirstHalfPre:  true,
	StageNormalFirstHalf:     true,
	StageNormalSecondHalfPre: true,
	StageNormalSecondHalf:    true,
	StageExtraFirstHalfPre:   true,
	StageExtraFirstHalf:      true,
	StageExtraSecondHalfPre:  true,
	StageExtraSecondHalf:     true,
	StagePenaltyShootout:     true,
}

func StagePlayable(s Stage) bool {
	return playableStages[s]
}
