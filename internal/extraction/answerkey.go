package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// answerKeyPattern matches "<number><sep><letter>" where sep is a period,
// dash, colon or space, e.g. "1. A", "2 - B", "3: C", "4 D".
var answerKeyPattern = regexp.MustCompile(`(?mi)\b(\d+)\s*[.\-: ]\s*([A-D])\b`)

// AnswerKey maps question numbers to answer letters A-D.
type AnswerKey map[int]string

// ParseAnswerKey scans text for answer entries. When a number appears more
// than once the last entry wins.
func ParseAnswerKey(text string) AnswerKey {
	key := AnswerKey{}
	for _, m := range answerKeyPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		key[n] = strings.ToUpper(m[2])
	}
	return key
}

// Lookup returns the answer for question n, or nil when the key has none.
func (k AnswerKey) Lookup(n int) *string {
	letter, ok := k[n]
	if !ok {
		return nil
	}
	return &letter
}

// Numbers returns the question numbers present in the key, ascending.
func (k AnswerKey) Numbers() []int {
	nums := make([]int, 0, len(k))
	for n := range k {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
