package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/models"
)

// IDSource hands out record identifiers. Each call returns a value larger
// than the previous one.
type IDSource func() int64

// Sequence returns an IDSource counting up from start.
func Sequence(start int64) IDSource {
	next := start
	return func() int64 {
		id := next
		next++
		return id
	}
}

var contextRuleStart = regexp.MustCompile(`^_+\s*\n+`)

type rangeKey struct {
	start, end int
}

// dedupeBlocks keeps the first block seen for every (start, end) range.
// Blocks arrive in family priority order, so a range found by the reading
// family shadows the same range found by the others.
func dedupeBlocks(blocks []Block, log logger.Logger) []Block {
	claimed := make(map[rangeKey]bool, len(blocks))
	kept := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		k := rangeKey{b.Start, b.End}
		if claimed[k] {
			log.Debug("Skipping %s block %d-%d: range already claimed", b.Kind, b.Start, b.End)
			continue
		}
		claimed[k] = true
		kept = append(kept, b)
	}
	return kept
}

// Assemble turns segmented blocks into output records ordered by their first
// question number. Ties keep discovery order.
func Assemble(blocks []Block, key AnswerKey, ids IDSource, log logger.Logger) []models.Record {
	type ordered struct {
		start  int
		record models.Record
	}

	var out []ordered
	for _, b := range dedupeBlocks(blocks, log) {
		questions := ParseQuestions(b, key, log)
		if len(questions) == 0 {
			log.Debug("Block %d-%d (%s) produced no questions", b.Start, b.End, b.Kind)
			continue
		}

		var record models.Record
		if b.Kind == BlockReorder {
			record.Standalone = make([]models.StandaloneQuestion, 0, len(questions))
			for _, q := range questions {
				record.Standalone = append(record.Standalone, models.StandaloneQuestion{
					SubQuestion:  q.SubQuestion,
					QuestionType: models.QuestionTypeReorder,
					Type:         models.RecordTypeStandalone,
					ID:           ids(),
				})
			}
		} else {
			subs := make([]models.SubQuestion, 0, len(questions))
			for _, q := range questions {
				subs = append(subs, q.SubQuestion)
			}
			record.Group = &models.QuestionGroup{
				ID:           ids(),
				Type:         models.RecordTypeGroup,
				Context:      ExtractContext(b),
				Subquestions: subs,
				QuestionType: Classify(subs),
			}
		}
		out = append(out, ordered{start: b.Start, record: record})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].start < out[j].start
	})

	records := make([]models.Record, 0, len(out))
	for _, o := range out {
		records = append(records, o.record)
	}
	return records
}

// ExtractContext returns the shared text of a block: everything after the
// range declaration up to the first question.
func ExtractContext(b Block) string {
	body := b.Body()

	cut := len(body)
	markers := questionMarker.FindAllStringSubmatchIndex(body, -1)
	for _, m := range markers {
		if n, err := strconv.Atoi(body[m[2]:m[3]]); err == nil && n == b.Start {
			cut = m[0]
			break
		}
	}
	if cut == len(body) && len(markers) > 0 {
		cut = markers[0][0]
	}

	context := strings.TrimSpace(body[:cut])
	context = strings.TrimSpace(strings.TrimPrefix(context, "."))
	context = emphasisEdgeStart.ReplaceAllString(context, "")
	context = emphasisEdgeEnd.ReplaceAllString(context, "")
	context = contextRuleStart.ReplaceAllString(context, "")
	return PreserveFormatting(CleanText(context))
}
