// Package correct repairs character confusions that OCR engines make on
// business cards (1/l, 0/o, broken email punctuation) before field
// extraction runs.
package correct

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

// maxPasses bounds the outer fixpoint loop. Every rule removes a digit or a
// space, so real inputs settle in two or three passes.
const maxPasses = 32

// ordinal suffixes and clock markers that keep a leading "1".
var keepLeadingOne = map[string]bool{
	"st": true, "nd": true, "rd": true, "th": true, "am": true, "pm": true,
}

var (
	// Contextual rewrites. RE2 has no lookaround, so the ones that consume
	// their neighbours are applied until they stop matching.
	doubleOneInsideRe = regexp.MustCompile(`([A-Za-z])11([A-Za-z])`)
	doubleOneEndRe    = regexp.MustCompile(`([A-Za-z])11\b`)
	oneInsideRe       = regexp.MustCompile(`([A-Za-z])1([A-Za-z])`)
	oneLeadingRe      = regexp.MustCompile(`\b1([A-Za-z]{2,})\b`)
	oneTrailingRe     = regexp.MustCompile(`\b([A-Za-z]{2,})1\b`)
	zeroInsideRe      = regexp.MustCompile(`([A-Za-z])0([A-Za-z])`)

	// Punctuation repair.
	atSpacingRe  = regexp.MustCompile(`(?i)([\w.+-])[ \t]*@[ \t]*([\w-]+)[ \t]*\.[ \t]*(com|net|org|edu|gov|io|co|biz|us|info|me|ai|dev|app|uk|ca)\b`)
	atBareTLDRe  = regexp.MustCompile(`(?i)@([\w-]+)[ \t]+(com|net|org|edu|gov|io|co)\b`)
	dotSpacingRe = regexp.MustCompile(`(?i)([\w-])[ \t]+\.[ \t]*(com|net|org|edu|gov|io|co|biz|us)\b`)
	wwwSpacingRe = regexp.MustCompile(`(?i)\bwww[ \t]*\.[ \t]*`)
	dotComRe     = regexp.MustCompile(`(?i)\.c[o0]m\b`)

	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
)

// Corrector applies the correction dictionary and contextual rewrites. It is
// safe for concurrent use.
type Corrector struct {
	dictRe    *regexp.Regexp
	exact     map[string]string
	caseFolds map[string]string
}

// New builds a Corrector from rs.
func New(rs *rules.RuleSet) *Corrector {
	c := &Corrector{
		exact:     make(map[string]string, len(rs.Corrections)),
		caseFolds: make(map[string]string, len(rs.Corrections)),
	}

	keys := make([]string, 0, len(rs.Corrections))
	for k := range rs.Corrections {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		v := rs.Corrections[k]
		c.exact[k] = v
		lk := strings.ToLower(k)
		if _, ok := c.caseFolds[lk]; !ok {
			c.caseFolds[lk] = v
		}
		quoted = append(quoted, regexp.QuoteMeta(k))
	}
	if len(quoted) > 0 {
		c.dictRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return c
}

// Correct returns raw with OCR confusions repaired. The result is a fixed
// point: Correct(Correct(s)) == Correct(s).
func (c *Corrector) Correct(raw string) string {
	text := raw
	for range maxPasses {
		next := c.pass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func (c *Corrector) pass(text string) string {
	text = c.applyDictionary(text)
	text = applyContextual(text)
	text = applyPunctuation(text)
	return normalizeWhitespace(text)
}

func (c *Corrector) applyDictionary(text string) string {
	if c.dictRe == nil {
		return text
	}
	return c.dictRe.ReplaceAllStringFunc(text, func(m string) string {
		if v, ok := c.exact[m]; ok {
			return v
		}
		v, ok := c.caseFolds[strings.ToLower(m)]
		if !ok {
			return m
		}
		if isUpperWord(m) {
			return strings.ToUpper(v)
		}
		return v
	})
}

func applyContextual(text string) string {
	text = untilStable(text, func(s string) string {
		return doubleOneInsideRe.ReplaceAllStringFunc(s, func(m string) string {
			return m[:1] + swapDigit(m, "ll") + m[3:]
		})
	})
	text = doubleOneEndRe.ReplaceAllStringFunc(text, func(m string) string {
		return m[:1] + swapDigit(m, "ll")
	})
	text = untilStable(text, func(s string) string {
		return oneInsideRe.ReplaceAllStringFunc(s, func(m string) string {
			return m[:1] + swapDigit(m, "l") + m[2:]
		})
	})
	text = oneLeadingRe.ReplaceAllStringFunc(text, func(m string) string {
		rest := m[1:]
		if keepLeadingOne[strings.ToLower(rest)] {
			return m
		}
		if isUpperWord(rest) {
			return "L" + rest
		}
		return "l" + rest
	})
	text = oneTrailingRe.ReplaceAllStringFunc(text, func(m string) string {
		head := m[:len(m)-1]
		if isUpperWord(head) {
			return head + "L"
		}
		return head + "l"
	})
	return untilStable(text, func(s string) string {
		return zeroInsideRe.ReplaceAllStringFunc(s, func(m string) string {
			if isUpperWord(m[:1] + m[2:]) {
				return m[:1] + "O" + m[2:]
			}
			return m[:1] + "o" + m[2:]
		})
	})
}

// swapDigit returns repl, uppercased when the letters around the digits in m
// are both uppercase.
func swapDigit(m, repl string) string {
	first, last := m[:1], m[len(m)-1:]
	if last == "1" {
		last = first
	}
	if isUpperWord(first + last) {
		return strings.ToUpper(repl)
	}
	return repl
}

func applyPunctuation(text string) string {
	text = atSpacingRe.ReplaceAllString(text, "${1}@${2}.${3}")
	text = atBareTLDRe.ReplaceAllString(text, "@${1}.${2}")
	text = dotSpacingRe.ReplaceAllString(text, "${1}.${2}")
	text = wwwSpacingRe.ReplaceAllStringFunc(text, func(m string) string {
		return m[:3] + "."
	})
	return dotComRe.ReplaceAllStringFunc(text, func(m string) string {
		if m[1] == 'C' {
			return ".COM"
		}
		return ".com"
	})
}

// normalizeWhitespace collapses horizontal whitespace, trims every line and
// drops blank lines. Line breaks are kept because extraction is line based.
func normalizeWhitespace(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpaceRe.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// CleanLines corrects text and returns the lines worth parsing: longer than
// one character and more than half alphanumeric.
func (c *Corrector) CleanLines(text string) []string {
	corrected := c.Correct(text)
	if corrected == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(corrected, "\n") {
		if Usable(line) {
			lines = append(lines, line)
		}
	}
	return lines
}

// Usable reports whether line is worth parsing: longer than one character and
// at least half letters or digits.
func Usable(line string) bool {
	line = strings.TrimSpace(line)
	n := len([]rune(line))
	if n <= 1 {
		return false
	}
	alnum := 0
	for _, r := range line {
		if isAlnumRune(r) {
			alnum++
		}
	}
	return float64(alnum)/float64(n) >= 0.5
}

// CorrectScan corrects each line of scan independently, keeping per-line
// confidences. Lines that correct to nothing are dropped.
func (c *Corrector) CorrectScan(scan model.RawScan) model.RawScan {
	out := model.RawScan{
		Confidence: scan.Confidence,
		Provider:   scan.Provider,
		Lines:      make([]model.ScanLine, 0, len(scan.Lines)),
	}
	for _, l := range scan.Lines {
		text := c.Correct(l.Text)
		if text == "" {
			continue
		}
		out.Lines = append(out.Lines, model.ScanLine{Text: text, Confidence: l.Confidence})
	}
	zap.L().Debug("correct: scan corrected",
		zap.String("provider", scan.Provider),
		zap.Int("lines_in", len(scan.Lines)),
		zap.Int("lines_out", len(out.Lines)),
	)
	return out
}

func untilStable(s string, f func(string) string) string {
	for {
		next := f(s)
		if next == s {
			return s
		}
		s = next
	}
}

// isUpperWord reports whether s has at least one letter and no lowercase
// letters.
func isUpperWord(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	return hasLetter
}

// isAlnumRune accepts letters and digits of any script. Box drawing, bullets
// and shading blocks are not alphanumeric.
func isAlnumRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
