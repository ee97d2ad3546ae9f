package contest

type Phase int

const (
	Phase1 Phase = 1
	Phase2 Phase = 2
)

// Points is the credit for one correct item in the phase.
func (p Phase) Points() int {
	switch p {
	case Phase1:
		return 10
	case Phase2:
		return 5
	}
	return 0
}

// SubmitAnswer records the latest answer for one question (phase 1) or level
// (phase 2). Resubmitting an item first withdraws any credit the previous
// answer earned, so the score only ever reflects the newest answer per item.
func (s *Session) SubmitAnswer(p Phase, itemID int, value string, correct bool) error {
	if s.Status != StatusActive {
		return ErrLockedOrDisqualified
	}

	pts := p.Points()
	switch p {
	case Phase1:
		answers, prev := replaceItem(s.Phase1Answers, itemID,
			func(a Phase1Answer) int { return a.QuestionID },
			Phase1Answer{QuestionID: itemID, AnswerText: value, IsCorrect: correct})
		if prev != nil && prev.IsCorrect {
			s.Scores.Phase1 -= pts
		}
		if correct {
			s.Scores.Phase1 += pts
		}
		s.Phase1Answers = answers
	case Phase2:
		answers, prev := replaceItem(s.Phase2Answers, itemID,
			func(a Phase2Answer) int { return a.LevelID },
			Phase2Answer{LevelID: itemID, SubmittedCode: value, IsCorrect: correct})
		if prev != nil && prev.IsCorrect {
			s.Scores.Phase2 -= pts
		}
		if correct {
			s.Scores.Phase2 += pts
		}
		s.Phase2Answers = answers
	default:
		return ErrUnknownPhase
	}

	s.Scores.Total = s.Scores.Phase1 + s.Scores.Phase2
	return nil
}

// replaceItem drops any entry with the given id, appends next and returns the
// dropped entry. The input slice is not modified.
func replaceItem[T any](items []T, id int, idOf func(T) int, next T) ([]T, *T) {
	out := make([]T, 0, len(items)+1)
	var prev *T
	for _, it := range items {
		if idOf(it) == id {
			prev = &it
			continue
		}
		out = append(out, it)
	}
	return append(out, next), prev
}
