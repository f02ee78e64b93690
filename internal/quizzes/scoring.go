package quizzes

// scoreAnswers grades a submission against the correct option per question.
// Unanswered or unknown questions score zero; answers to questions not in
// the quiz are ignored.
func scoreAnswers(correct map[int64]int64, points map[int64]int, answers map[int64]int64) (score, total int) {
	for questionID, pts := range points {
		total += pts
		if selected, ok := answers[questionID]; ok && selected == correct[questionID] {
			score += pts
		}
	}
	return score, total
}
