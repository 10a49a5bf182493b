// Package rules holds the correction dictionary and keyword tables that drive
// OCR repair, field extraction and scoring. A RuleSet is built once at startup
// and shared read-only by every worker.
package rules

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// RuleSet is the full set of tables. Exported fields mirror the YAML override
// file; lookups go through the methods, which use indexes built by compile.
type RuleSet struct {
	Corrections       map[string]string   `yaml:"corrections"`
	TitleKeywords     []string            `yaml:"title_keywords"`
	CompoundTitles    map[string]string   `yaml:"compound_titles"`
	CompanyIndicators []string            `yaml:"company_indicators"`
	PersonalDomains   []string            `yaml:"personal_domains"`
	FirstNames        []string            `yaml:"first_names"`
	Surnames          []string            `yaml:"surnames"`
	NonNameWords      []string            `yaml:"non_name_words"`
	StreetKeywords    []string            `yaml:"street_keywords"`
	States            map[string]string   `yaml:"states"`
	StateMisreads     map[string]string   `yaml:"state_misreads"`
	IndustryKeywords  map[string][]string `yaml:"industry_keywords"`
	CommonTLDs        []string            `yaml:"common_tlds"`
	BusinessTLDs      []string            `yaml:"business_tlds"`
	SocialDomains     []string            `yaml:"social_domains"`
	EmailPrefixes     []string            `yaml:"email_prefixes"`

	titleRe        *regexp.Regexp
	companyRe      *regexp.Regexp
	streetRe       *regexp.Regexp
	stateNameRe    *regexp.Regexp
	compoundKeys   []string
	personal       map[string]bool
	personalLabels map[string]bool
	firstNames     map[string]bool
	surnames       map[string]bool
	nonName        map[string]bool
	companyWords   map[string]bool
	stateAbbrs     map[string]bool
	commonTLDs     map[string]bool
	businessTLDs   map[string]bool
	industryOrder  []string
}

// Default returns the built-in rule set.
func Default() *RuleSet {
	rs := &RuleSet{
		Corrections:       copyMap(defaultCorrections),
		TitleKeywords:     append([]string(nil), defaultTitleKeywords...),
		CompoundTitles:    copyMap(defaultCompoundTitles),
		CompanyIndicators: append([]string(nil), defaultCompanyIndicators...),
		PersonalDomains:   append([]string(nil), defaultPersonalDomains...),
		FirstNames:        append([]string(nil), defaultFirstNames...),
		Surnames:          append([]string(nil), defaultSurnames...),
		NonNameWords:      append([]string(nil), defaultNonNameWords...),
		StreetKeywords:    append([]string(nil), defaultStreetKeywords...),
		States:            copyMap(defaultStates),
		StateMisreads:     copyMap(defaultStateMisreads),
		IndustryKeywords:  make(map[string][]string, len(defaultIndustryKeywords)),
		CommonTLDs:        append([]string(nil), defaultCommonTLDs...),
		BusinessTLDs:      append([]string(nil), defaultBusinessTLDs...),
		SocialDomains:     append([]string(nil), defaultSocialDomains...),
		EmailPrefixes:     append([]string(nil), defaultEmailPrefixes...),
	}
	for k, v := range defaultIndustryKeywords {
		rs.IndustryKeywords[k] = append([]string(nil), v...)
	}
	rs.compile()
	return rs
}

// Load reads a YAML override file on top of the defaults. Map tables are
// extended key by key; list tables present in the file replace the default
// list. The top-level key is "rules".
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}

	rs := Default()
	wrapper := struct {
		Rules *RuleSet `yaml:"rules"`
	}{Rules: rs}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "rules: parse %s", path)
	}

	for wrong, right := range rs.Corrections {
		if strings.ContainsAny(right, "0123456789") {
			return nil, eris.Errorf("rules: correction %q -> %q must not contain digits", wrong, right)
		}
	}

	rs.compile()
	return rs, nil
}

// LoadOrDefault returns Default when path is empty and Load otherwise.
func LoadOrDefault(path string) (*RuleSet, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Marshal renders the effective rule set as YAML under a "rules" key.
func (rs *RuleSet) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(map[string]*RuleSet{"rules": rs})
	if err != nil {
		return nil, eris.Wrap(err, "rules: marshal")
	}
	return out, nil
}

func (rs *RuleSet) compile() {
	rs.titleRe = wordAlternation(rs.TitleKeywords)
	rs.companyRe = wordAlternation(rs.CompanyIndicators)
	rs.streetRe = wordAlternation(rs.StreetKeywords)

	names := make([]string, 0, len(rs.States)+len(rs.StateMisreads))
	rs.stateAbbrs = make(map[string]bool, len(rs.States))
	for name, abbr := range rs.States {
		names = append(names, name)
		rs.stateAbbrs[strings.ToUpper(abbr)] = true
	}
	for misread := range rs.StateMisreads {
		names = append(names, misread)
	}
	rs.stateNameRe = wordAlternation(names)

	rs.compoundKeys = make([]string, 0, len(rs.CompoundTitles))
	for k := range rs.CompoundTitles {
		rs.compoundKeys = append(rs.compoundKeys, k)
	}
	sortLongestFirst(rs.compoundKeys)

	rs.personal = toSet(rs.PersonalDomains)
	rs.personalLabels = make(map[string]bool, len(rs.personal))
	for p := range rs.personal {
		label, _, _ := strings.Cut(p, ".")
		rs.personalLabels[label] = true
	}
	rs.firstNames = toSet(rs.FirstNames)
	rs.surnames = toSet(rs.Surnames)
	rs.companyWords = toSet(rs.CompanyIndicators)
	rs.commonTLDs = toSet(rs.CommonTLDs)
	rs.businessTLDs = toSet(rs.BusinessTLDs)
	rs.nonName = toSet(rs.NonNameWords)
	for _, w := range rs.TitleKeywords {
		rs.nonName[strings.ToLower(w)] = true
	}

	rs.industryOrder = make([]string, 0, len(rs.IndustryKeywords))
	for k := range rs.IndustryKeywords {
		rs.industryOrder = append(rs.industryOrder, k)
	}
	sort.Strings(rs.industryOrder)
}

// wordAlternation compiles a case-insensitive whole-word alternation, longest
// alternatives first so multi-word entries win over their prefixes.
func wordAlternation(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return regexp.MustCompile(`$^`)
	}
	sorted := append([]string(nil), words...)
	sortLongestFirst(sorted)
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(` + strings.Join(quoted, "|") + `)(?:$|[^a-z0-9])`)
}

func sortLongestFirst(s []string) {
	sort.Slice(s, func(i, j int) bool {
		if len(s[i]) != len(s[j]) {
			return len(s[i]) > len(s[j])
		}
		return s[i] < s[j]
	})
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = true
	}
	return m
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
