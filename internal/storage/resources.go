package storage

import (
	"fmt"
	"strconv"

	"github.com/Epistemic-Technology/quizbank/models"
)

// CalculateResourcePaths lists the resource URIs available for a cached bank.
func CalculateResourcePaths(docID string, bank *models.QuestionBank) []string {
	resourcePaths := []string{
		fmt.Sprintf("quiz://%s", docID),
		fmt.Sprintf("quiz://%s/records", docID),
	}

	if len(bank.Records) > 0 {
		resourcePaths = append(resourcePaths,
			fmt.Sprintf("quiz://%s/records/0", docID),
			fmt.Sprintf("quiz://%s/records/{index}", docID),
		)
	}

	if len(bank.AnswerKey) > 0 {
		resourcePaths = append(resourcePaths, fmt.Sprintf("quiz://%s/answers", docID))
	}

	return resourcePaths
}

// ParseRecordIndex parses the {index} segment of a record resource URI.
func ParseRecordIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid record index %q", s)
	}
	return index, nil
}
