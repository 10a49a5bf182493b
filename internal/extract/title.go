package extract

import "strings"

const maxTitleLen = 80

// extractTitle returns the first line carrying a title keyword, preferring
// lines that do not also name a company. When no line qualifies it looks for
// a run-together title ("realestateagent") in the whole text.
func (e *Extractor) extractTitle(c *card) (string, int) {
	fallback, fallbackLine := "", -1
	for i, line := range c.lines {
		if i == c.nameLine || isContactLine(line) || len(line) > maxTitleLen {
			continue
		}
		if !e.rs.HasTitleKeyword(line) {
			continue
		}
		if !e.rs.HasCompanyIndicator(line) {
			return line, i
		}
		if fallbackLine < 0 {
			fallback, fallbackLine = line, i
		}
	}
	if fallbackLine >= 0 {
		return fallback, fallbackLine
	}

	compact := strings.ToLower(strings.Join(strings.Fields(c.text), ""))
	if title, ok := e.rs.CompoundTitle(compact); ok {
		return title, -1
	}
	return "", -1
}
