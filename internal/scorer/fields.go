package scorer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

var (
	properNameRe = regexp.MustCompile(`^[A-Z][a-z]+(?:['-][A-Za-z][a-z]*)*(?: [A-Z][a-z]*\.?(?:['-][A-Za-z][a-z]*)*)+$`)
	validEmailRe = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
	websiteURLRe = regexp.MustCompile(`(?i)^https?://[a-z0-9.-]+\.[a-z]{2,}(?:/\S*)?$`)
	handleRe     = regexp.MustCompile(`^@[A-Za-z0-9_]{1,15}$`)
	zipRe        = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	stateTokenRe = regexp.MustCompile(`\b[A-Z]{2}\b`)

	// OCR noise: pipes and bangs next to l/I/1, digits, or runs of spaces.
	// A plain "ll" is a real letter pair and is not flagged.
	nameNoiseRe    = regexp.MustCompile(`[|!1]{2,}|[|!1][lI]|[lI][|!1]|\d|\s{3,}`)
	// Companies may start with digits ("3M", "21st Century") but a digit
	// right after a letter ("Acm3", "S0lutions") is an OCR misread.
	companyNoiseRe = regexp.MustCompile(`[|!]{2,}|[|!][lI1]|[lI1][|!]|\s{3,}|[A-Za-z]\d`)
)

func defaultRules(rs *rules.RuleSet) map[model.Field]FieldRule {
	return map[model.Field]FieldRule{
		model.FieldName:     scoreName,
		model.FieldEmail:    emailRule(rs),
		model.FieldPhone:    scorePhone,
		model.FieldCompany:  companyRule(rs),
		model.FieldTitle:    titleRule(rs),
		model.FieldWebsite:  scoreWebsite,
		model.FieldAddress:  addressRule(rs),
		model.FieldLinkedIn: scoreLinkedIn,
		model.FieldTwitter:  scoreTwitter,
	}
}

func scoreName(rec *model.ContactRecord) (float64, string) {
	if rec.IsEmpty(model.FieldName) {
		return 0, model.QualityMissing
	}
	name := strings.TrimSpace(*rec.Name)
	score, quality := 0.5, model.QualityUncertain

	if properNameRe.MatchString(name) {
		score += 0.3
		quality = model.QualityLikely
	}
	if n := len(strings.Fields(name)); n >= 2 && n <= 4 {
		score += 0.1
	}
	suspicious := nameNoiseRe.MatchString(name)
	if suspicious {
		score -= 0.3
		quality = model.QualitySuspicious
	}
	if name == cases.Title(language.English).String(strings.ToLower(name)) {
		score += 0.1
		if !suspicious {
			quality = model.QualityVerified
		}
	}
	return score, quality
}

func emailRule(rs *rules.RuleSet) FieldRule {
	return func(rec *model.ContactRecord) (float64, string) {
		if rec.IsEmpty(model.FieldEmail) {
			return 0, model.QualityMissing
		}
		email := strings.TrimSpace(*rec.Email)
		if !validEmailRe.MatchString(email) {
			if strings.Contains(email, "@") && strings.Contains(email, ".") {
				return 0.4, model.QualitySuspicious
			}
			return 0, model.QualityInvalid
		}

		score, quality := 0.8, model.QualityValidFormat
		domain := email[strings.LastIndex(email, "@")+1:]
		if !rs.IsPersonalDomain(domain) {
			score += 0.1
			quality = model.QualityBusinessEmail
		}
		if rs.IsBusinessTLD(domain[strings.LastIndex(domain, ".")+1:]) {
			score += 0.1
		}
		return score, quality
	}
}

// scorePhone scores the best number on the record.
func scorePhone(rec *model.ContactRecord) (float64, string) {
	if rec.IsEmpty(model.FieldPhone) {
		return 0, model.QualityMissing
	}
	best, bestQuality := 0.0, model.QualityUncertain
	for _, p := range rec.Phone {
		score, quality := phoneScore(p)
		if score > best {
			best, bestQuality = score, quality
		}
	}
	if best == 0 {
		return 0, model.QualityInvalid
	}
	return best, bestQuality
}

func phoneScore(p string) (float64, string) {
	p = strings.TrimSpace(p)
	digits := 0
	for _, r := range p {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	var score float64
	var quality string
	switch {
	case digits >= 10:
		score, quality = 0.9, model.QualityComplete
	case digits >= 7:
		score, quality = 0.7, model.QualityPartial
	case digits > 0:
		return 0.3, model.QualityUncertain
	default:
		return 0, model.QualityInvalid
	}
	if strings.HasPrefix(p, "+") || strings.HasPrefix(p, "1") {
		score += 0.1
	}
	return score, quality
}

func companyRule(rs *rules.RuleSet) FieldRule {
	return func(rec *model.ContactRecord) (float64, string) {
		if rec.IsEmpty(model.FieldCompany) {
			return 0, ""
		}
		company := strings.TrimSpace(*rec.Company)
		score := 0.6
		if n := len(company); n >= 3 && n <= 100 {
			score += 0.2
		}
		if rs.HasCompanyIndicator(company) {
			score += 0.1
		}
		if companyNoiseRe.MatchString(company) {
			score -= 0.2
		}
		return score, ""
	}
}

func titleRule(rs *rules.RuleSet) FieldRule {
	return func(rec *model.ContactRecord) (float64, string) {
		if rec.IsEmpty(model.FieldTitle) {
			return 0, ""
		}
		title := strings.TrimSpace(*rec.Title)
		score := 0.5
		if rs.HasTitleKeyword(title) {
			score += 0.4
		}
		if n := len(title); n >= 3 && n <= 50 {
			score += 0.1
		}
		return score, ""
	}
}

func scoreWebsite(rec *model.ContactRecord) (float64, string) {
	if rec.IsEmpty(model.FieldWebsite) {
		return 0, ""
	}
	site := strings.TrimSpace(*rec.Website)
	switch {
	case websiteURLRe.MatchString(site):
		return 0.9, ""
	case strings.Contains(site, "."):
		return 0.5, ""
	}
	return 0.2, ""
}

func addressRule(rs *rules.RuleSet) FieldRule {
	return func(rec *model.ContactRecord) (float64, string) {
		if rec.IsEmpty(model.FieldAddress) {
			return 0, ""
		}
		addr := *rec.Address
		score := 0.4
		if rs.HasStreetKeyword(addr) {
			score += 0.3
		}
		if zipRe.MatchString(addr) {
			score += 0.2
		}
		for _, tok := range stateTokenRe.FindAllString(addr, -1) {
			if rs.IsStateAbbr(tok) {
				score += 0.1
				break
			}
		}
		return score, ""
	}
}

func scoreLinkedIn(rec *model.ContactRecord) (float64, string) {
	if rec.IsEmpty(model.FieldLinkedIn) {
		return 0, ""
	}
	li := strings.ToLower(*rec.LinkedIn)
	switch {
	case strings.Contains(li, "linkedin.com"):
		return 0.95, ""
	case strings.Contains(li, "in/"):
		return 0.7, ""
	}
	return 0.3, ""
}

func scoreTwitter(rec *model.ContactRecord) (float64, string) {
	if rec.IsEmpty(model.FieldTwitter) {
		return 0, ""
	}
	if handleRe.MatchString(strings.TrimSpace(*rec.Twitter)) {
		return 0.8, ""
	}
	return 0.3, ""
}
