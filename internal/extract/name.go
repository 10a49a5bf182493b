package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// nameWindow is how many leading lines are searched for capitalized
	// names and the base of the positional bonus.
	nameWindow = 8

	minNameWords     = 2
	maxCapsNameWords = 3
	maxNameWords     = 4
)

type nameCandidate struct {
	words  []string
	line   int
	column int
	caps   bool
	score  float64
}

// extractName picks the most name-like run of words. It returns the name and
// the index of the line it came from, or "" and -1.
func (e *Extractor) extractName(lines []string) (string, int) {
	var best *nameCandidate
	for i, line := range lines {
		if isContactLine(line) {
			continue
		}
		for _, cand := range e.nameCandidates(line, i) {
			cand.score = e.scoreName(cand)
			if best == nil || cand.score > best.score {
				best = &cand
			}
		}
	}
	if best == nil {
		return "", -1
	}
	name := strings.Join(best.words, " ")
	if best.caps {
		name = cases.Title(language.English).String(strings.ToLower(name))
	}
	return name, best.line
}

// nameCandidates returns the runs on one line in column order. ALL-CAPS runs
// qualify anywhere; capitalized runs only within the first nameWindow lines.
func (e *Extractor) nameCandidates(line string, lineIdx int) []nameCandidate {
	tokens := strings.Fields(line)
	var out []nameCandidate

	for start := 0; start < len(tokens); {
		shape := tokenShape(tokens[start])
		if shape == shapeOther {
			start++
			continue
		}
		end := start
		for end < len(tokens) && tokenShape(tokens[end]) == shape {
			end++
			// A trailing comma or period closes the run after this token.
			if strings.ContainsAny(tokens[end-1][len(tokens[end-1])-1:], ",;:") {
				break
			}
		}
		run := tokens[start:end]
		if shape == shapeCaps || lineIdx < nameWindow {
			out = append(out, e.splitRun(run, start, lineIdx, shape == shapeCaps)...)
		}
		start = end
	}
	return out
}

// splitRun drops a run that names a company and otherwise splits it at words
// that cannot belong to a name.
func (e *Extractor) splitRun(run []string, offset, lineIdx int, caps bool) []nameCandidate {
	for _, tok := range run {
		if e.rs.IsCompanyWord(tok) {
			return nil
		}
	}

	maxWords := maxNameWords
	if caps {
		maxWords = maxCapsNameWords
	}

	var out []nameCandidate
	var cur []string
	curStart := 0
	flush := func() {
		if len(cur) >= minNameWords && len(cur) <= maxWords {
			out = append(out, nameCandidate{
				words:  cur,
				line:   lineIdx,
				column: offset + curStart,
				caps:   caps,
			})
		}
		cur = nil
	}
	for i, tok := range run {
		word := strings.Trim(tok, ".,;:")
		if word == "" || e.rs.IsNonNameWord(word) {
			flush()
			continue
		}
		if cur == nil {
			curStart = i
		}
		cur = append(cur, word)
	}
	flush()
	return out
}

// scoreName ranks candidates: base 1, a known first name (or failing that a
// known surname), exactly two words, and closeness to the top of the card.
func (e *Extractor) scoreName(c nameCandidate) float64 {
	score := 1.0
	switch {
	case e.rs.IsFirstName(c.words[0]):
		score += 1.0
	case e.rs.IsSurname(c.words[len(c.words)-1]):
		score += 0.5
	}
	if len(c.words) == 2 {
		score += 0.5
	}
	if c.line < nameWindow {
		score += 0.25 * float64(nameWindow-c.line)
	}
	return score
}

type shape int

const (
	shapeOther shape = iota
	shapeCaps
	shapeCapitalized
)

// tokenShape classifies a token, ignoring trailing punctuation. Tokens with
// digits or symbols other than apostrophes and hyphens are shapeOther.
func tokenShape(tok string) shape {
	word := strings.TrimRight(tok, ".,;:")
	if word == "" {
		return shapeOther
	}
	letters, upper, lower := 0, 0, 0
	for _, r := range word {
		switch {
		case unicode.IsUpper(r):
			letters++
			upper++
		case unicode.IsLower(r):
			letters++
			lower++
		case r == '\'' || r == '-':
		default:
			return shapeOther
		}
	}
	first := []rune(word)[0]
	switch {
	case !unicode.IsUpper(first):
		return shapeOther
	case lower == 0 && letters >= 2:
		return shapeCaps
	case lower > 0:
		return shapeCapitalized
	}
	return shapeOther
}
