package rules

import "strings"

// HasTitleKeyword reports whether s contains a job-title keyword as a word.
func (rs *RuleSet) HasTitleKeyword(s string) bool {
	return rs.titleRe.MatchString(s)
}

// HasCompanyIndicator reports whether s contains a company indicator as a word.
func (rs *RuleSet) HasCompanyIndicator(s string) bool {
	return rs.companyRe.MatchString(s)
}

// HasStreetKeyword reports whether s contains a street-type keyword.
func (rs *RuleSet) HasStreetKeyword(s string) bool {
	return rs.streetRe.MatchString(s)
}

// HasStateName reports whether s mentions a state by full name or by a known
// OCR misreading of one.
func (rs *RuleSet) HasStateName(s string) bool {
	return rs.stateNameRe.MatchString(s)
}

// IsStateAbbr reports whether tok is an uppercase two-letter state code.
func (rs *RuleSet) IsStateAbbr(tok string) bool {
	return len(tok) == 2 && tok == strings.ToUpper(tok) && rs.stateAbbrs[tok]
}

// CompoundTitle looks for a concatenated title inside compact (lowercase,
// spaces removed), trying longer compounds first.
func (rs *RuleSet) CompoundTitle(compact string) (string, bool) {
	for _, k := range rs.compoundKeys {
		if strings.Contains(compact, k) {
			return rs.CompoundTitles[k], true
		}
	}
	return "", false
}

// IsPersonalDomain reports whether an email domain belongs to a free
// provider. Subdomains and the bare provider label ("gmail") also match.
func (rs *RuleSet) IsPersonalDomain(domain string) bool {
	d := strings.ToLower(strings.TrimSpace(domain))
	if rs.personal[d] {
		return true
	}
	if !strings.Contains(d, ".") {
		return rs.personalLabels[d]
	}
	for p := range rs.personal {
		if strings.HasSuffix(d, "."+p) {
			return true
		}
	}
	return false
}

// IsFirstName reports whether w is a known given name.
func (rs *RuleSet) IsFirstName(w string) bool {
	return rs.firstNames[strings.ToLower(w)]
}

// IsSurname reports whether w is a known family name.
func (rs *RuleSet) IsSurname(w string) bool {
	return rs.surnames[strings.ToLower(w)]
}

// IsNonNameWord reports whether w can never be part of a person's name.
func (rs *RuleSet) IsNonNameWord(w string) bool {
	return rs.nonName[strings.ToLower(strings.Trim(w, ".,;:"))]
}

// IsCompanyWord reports whether the single token w is a company indicator.
func (rs *RuleSet) IsCompanyWord(w string) bool {
	return rs.companyWords[strings.ToLower(strings.Trim(w, ".,;:"))]
}

// IsCommonTLD reports whether tld is accepted for a bare hostname.
func (rs *RuleSet) IsCommonTLD(tld string) bool {
	return rs.commonTLDs[strings.ToLower(tld)]
}

// IsBusinessTLD reports whether tld earns the business email bonus.
func (rs *RuleSet) IsBusinessTLD(tld string) bool {
	return rs.businessTLDs[strings.ToLower(tld)]
}

// IsSocialHost reports whether host belongs to a social network.
func (rs *RuleSet) IsSocialHost(host string) bool {
	h := strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, s := range rs.SocialDomains {
		if h == s || strings.HasSuffix(h, "."+s) {
			return true
		}
	}
	return false
}

// GuessIndustry returns the industry whose keywords match text most often,
// ties broken alphabetically. It returns "" when nothing matches.
func (rs *RuleSet) GuessIndustry(text string) string {
	lower := strings.ToLower(text)
	best, bestHits := "", 0
	for _, industry := range rs.industryOrder {
		hits := 0
		for _, kw := range rs.IndustryKeywords[industry] {
			if ContainsWord(lower, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = industry, hits
		}
	}
	return best
}

// ContainsWord checks if text contains needle as a whole word (bounded by
// non-alphanumeric characters or string boundaries). Both arguments should
// already be lowercased.
func ContainsWord(text, needle string) bool {
	if needle == "" || text == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		absIdx := start + idx
		endIdx := absIdx + len(needle)

		leftOK := absIdx == 0 || !isAlphaNum(text[absIdx-1])
		rightOK := endIdx == len(text) || !isAlphaNum(text[endIdx])
		if leftOK && rightOK {
			return true
		}
		start = absIdx + 1
	}
}

func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
