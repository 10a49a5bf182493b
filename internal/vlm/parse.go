package vlm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sells-group/cardscan/internal/extract"
)

const resultSchemaJSON = `{
  "type": "object",
  "properties": {
    "name":     {"type": ["string", "null"]},
    "title":    {"type": ["string", "null"]},
    "company":  {"type": ["string", "null"]},
    "email":    {"type": ["string", "null"]},
    "phone":    {"type": ["array", "string", "null"], "items": {"type": "string"}},
    "website":  {"type": ["string", "null"]},
    "address":  {"type": ["string", "null"]},
    "linkedin": {"type": ["string", "null"]},
    "raw_text": {"type": ["string", "null"]}
  }
}`

var resultSchema = jsonschema.MustCompileString("vlm_result.json", resultSchemaJSON)

var (
	fencedRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	objectRe = regexp.MustCompile(`\{[\s\S]*\}`)
)

type rawResult struct {
	Name     *string         `json:"name"`
	Title    *string         `json:"title"`
	Company  *string         `json:"company"`
	Email    *string         `json:"email"`
	Phone    json.RawMessage `json:"phone"`
	Website  *string         `json:"website"`
	Address  *string         `json:"address"`
	LinkedIn *string         `json:"linkedin"`
	RawText  *string         `json:"raw_text"`
}

// parseResponse pulls the contact object out of a model reply. The reply may
// be bare JSON, a fenced code block, or prose around a single object.
func parseResponse(text string) (*Result, error) {
	doc, ok := decodeObject(text)
	if !ok {
		return nil, ErrUnparseable
	}
	if err := resultSchema.Validate(doc); err != nil {
		return nil, eris.Wrap(ErrUnparseable, err.Error())
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, eris.Wrap(err, "vlm: re-marshal response")
	}
	var raw rawResult
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, eris.Wrap(err, "vlm: decode response")
	}

	res := &Result{
		Name:     blankToNil(raw.Name),
		Title:    blankToNil(raw.Title),
		Company:  blankToNil(raw.Company),
		Email:    blankToNil(raw.Email),
		Phone:    decodePhones(raw.Phone),
		Website:  blankToNil(raw.Website),
		Address:  blankToNil(raw.Address),
		LinkedIn: blankToNil(raw.LinkedIn),
		RawText:  text,
	}
	if raw.RawText != nil && strings.TrimSpace(*raw.RawText) != "" {
		res.RawText = *raw.RawText
	}
	res.Confidence = res.computeConfidence()
	if res.Confidence == 0 && res.Website == nil && res.Address == nil && res.LinkedIn == nil {
		return nil, ErrEmpty
	}
	return res, nil
}

func decodeObject(text string) (map[string]any, bool) {
	candidates := []string{strings.TrimSpace(text)}
	if m := fencedRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := objectRe.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	for _, c := range candidates {
		var doc map[string]any
		if err := json.Unmarshal([]byte(c), &doc); err == nil && doc != nil {
			return doc, true
		}
	}
	return nil, false
}

// decodePhones accepts a list or a single string and returns normalized,
// deduplicated numbers. Entries that are not phone numbers are dropped.
func decodePhones(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var one string
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil
		}
		list = []string{one}
	}
	return extract.NormalizePhones(list)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
