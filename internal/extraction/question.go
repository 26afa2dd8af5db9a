package extraction

import (
	"strconv"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/models"
)

// Question is a parsed sub-question together with its number in the source.
type Question struct {
	Number int
	models.SubQuestion
}

// ParseQuestions returns the questions of a block whose numbers fall inside
// the block's declared range and which carry all four options. Anything else
// is dropped.
func ParseQuestions(b Block, key AnswerKey, log logger.Logger) []Question {
	body := b.Body()
	markers := questionMarker.FindAllStringSubmatchIndex(body, -1)

	var questions []Question
	for i, m := range markers {
		n, err := strconv.Atoi(body[m[2]:m[3]])
		if err != nil {
			continue
		}
		if n < b.Start || n > b.End {
			log.Debug("Dropping question %d outside range %d-%d", n, b.Start, b.End)
			continue
		}

		segEnd := len(body)
		if i+1 < len(markers) {
			segEnd = markers[i+1][0]
		}
		q, ok := parseQuestion(body[m[1]:segEnd], n == b.End)
		if !ok {
			log.Debug("Dropping question %d: options A-D not found", n)
			continue
		}
		q.Number = n
		q.CorrectAnswer = key.Lookup(n)
		questions = append(questions, q)
	}
	return questions
}

// parseQuestion splits the text after a question marker into a stem and four
// options. Option D of the block's final question ends with its line; other
// D options run to the first blank line.
func parseQuestion(segment string, final bool) (Question, bool) {
	opts, ok := findOptions(segment)
	if !ok {
		return Question{}, false
	}

	var q Question
	stem := segment[:opts[0][0]]
	if hasWordChar(stem) {
		q.Content = NormalizeContent(stem)
	}

	for i := range opts {
		from := opts[i][1]
		to := len(segment)
		if i+1 < len(opts) {
			to = opts[i+1][0]
		} else if final {
			to = from + lineEnd(segment[from:])
		} else if b := blankLine.FindStringIndex(segment[from:]); b != nil {
			to = from + b[0]
		}
		q.Options[i] = NormalizeOption(segment[from:to])
	}
	return q, true
}
