package extraction

import "github.com/Epistemic-Technology/quizbank/models"

// Summarize folds the records into question and answer counts.
func Summarize(records []models.Record) models.BankSummary {
	summary := models.BankSummary{ByType: map[models.QuestionType]int{}}
	for _, r := range records {
		subs := r.Subquestions()
		if r.Group != nil {
			summary.Groups++
		} else {
			summary.Standalone += len(subs)
		}
		summary.Questions += len(subs)
		summary.ByType[r.QuestionType()] += len(subs)
		for _, sq := range subs {
			if sq.CorrectAnswer != nil {
				summary.Answered++
			}
		}
	}
	return summary
}
