package game

// Phase is the transient judging state of a session.
type Phase int

const (
	PhaseListening            Phase = iota // Waiting for an answer
	PhaseCorrect                           // Correct answer shown, advancing after the delay
	PhaseWrong                             // Wrong answer shown, retrying after the delay
	PhaseRemoved                           // Shortcut removed, advancing after the delay
	PhaseSelectingTools                    // Tool picker open until dismissed
	PhaseShowingCorrectAnswer              // Answer revealed, waiting for self-grading
	PhaseMarkedSelfCorrect                 // Self-graded correct, advancing after the delay
	PhaseMarkedSelfWrong                   // Self-graded wrong, advancing after the delay
)

var phaseNames = map[Phase]string{
	PhaseListening:            "listening",
	PhaseCorrect:              "correct",
	PhaseWrong:                "wrong",
	PhaseRemoved:              "removed",
	PhaseSelectingTools:       "selecting-tools",
	PhaseShowingCorrectAnswer: "showing-correct-answer",
	PhaseMarkedSelfCorrect:    "marked-self-correct",
	PhaseMarkedSelfWrong:      "marked-self-wrong",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Timed reports whether the phase ends by itself after the transition delay.
func (p Phase) Timed() bool {
	switch p {
	case PhaseCorrect, PhaseWrong, PhaseRemoved, PhaseMarkedSelfCorrect, PhaseMarkedSelfWrong:
		return true
	}
	return false
}
