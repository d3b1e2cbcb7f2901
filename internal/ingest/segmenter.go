package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

// accountStartRe recognizes the 4-8 digit account token that opens a debtor row.
var accountStartRe = regexp.MustCompile(`^\s*\d{4,8}\b`)

// defaultSkipPatterns drop the boilerplate an accounting package repeats on
// every page: report headers, column titles, rulers, page footers and the
// summary lines that follow the last debtor row.
var defaultSkipPatterns = []string{
	`(?i)^\s*page\s+\d+`,
	`(?i)debtors?\s+age\s+analysis`,
	`(?i)^\s*account\s+(no|number|name)`,
	`(?i)^\s*acc\s+no\b`,
	`(?i)^\s*current\s+30\s`,
	`(?i)^\s*printed\b`,
	`(?i)^\s*[-=_*]{3,}\s*$`,
	`(?i)^\s*(sub)?\s*totals?\b`,
	`(?i)^\s*grand\s+total\b`,
}

// Segmenter splits extracted report text into blocks, one per suspected
// debtor row. Segmentation is heuristic and lossy: text that never lines up
// behind an account-number-leading line is dropped and counted, not errored.
type Segmenter struct {
	skip []*regexp.Regexp
}

// NewSegmenter compiles the default skip set plus any caller-supplied
// patterns (uninterpreted regular expressions).
func NewSegmenter(extraSkip ...string) (*Segmenter, error) {
	patterns := append(append([]string{}, defaultSkipPatterns...), extraSkip...)
	skip := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile skip pattern %q: %w", p, err)
		}
		skip = append(skip, re)
	}
	return &Segmenter{skip: skip}, nil
}

// Segment returns the recognized blocks plus the count of dropped line groups
// (contiguous non-boilerplate text with no account-number lead-in). The sum
// len(blocks)+dropped is the authoritative segmented-block count an upload
// reconciles against.
func (s *Segmenter) Segment(text string) ([]string, int) {
	var (
		blocks  []string
		current []string
		orphan  bool
		dropped int
	)

	flushBlock := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	flushOrphan := func() {
		if orphan {
			dropped++
			orphan = false
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushBlock()
			flushOrphan()
			continue
		}
		if s.skipped(trimmed) {
			flushBlock()
			flushOrphan()
			continue
		}
		if accountStartRe.MatchString(line) {
			flushBlock()
			flushOrphan()
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			// continuation of the open row (wrapped contact details)
			current = append(current, line)
			continue
		}
		orphan = true
	}
	flushBlock()
	flushOrphan()

	return blocks, dropped
}

func (s *Segmenter) skipped(line string) bool {
	for _, re := range s.skip {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
