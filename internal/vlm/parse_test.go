package vlm

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/model"
)

const fullReply = `{
  "name": "William Miller",
  "title": "Real Estate Agent",
  "company": "Miller Realty Group",
  "email": "info@realty.com",
  "phone": ["(555) 987-6543", "555-111-2222"],
  "website": "www.realty.com",
  "address": null,
  "linkedin": null,
  "raw_text": "William Miller\nReal Estate Agent"
}`

func TestParseResponse_Direct(t *testing.T) {
	t.Parallel()
	res, err := parseResponse(fullReply)
	require.NoError(t, err)

	assert.Equal(t, "William Miller", model.Value(res.Name))
	assert.Equal(t, "Real Estate Agent", model.Value(res.Title))
	assert.Equal(t, []string{"5559876543", "5551112222"}, res.Phone)
	assert.Nil(t, res.Address)
	assert.Equal(t, "William Miller\nReal Estate Agent", res.RawText)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
}

func TestParseResponse_Fenced(t *testing.T) {
	t.Parallel()
	res, err := parseResponse("Here you go:\n```json\n{\"name\": \"Jane Roe\", \"email\": \"jane@roe.io\"}\n```\n")
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", model.Value(res.Name))
	assert.InDelta(t, 0.38, res.Confidence, 1e-9)
}

func TestParseResponse_EmbeddedObject(t *testing.T) {
	t.Parallel()
	res, err := parseResponse(`The card reads {"name": "Jane Roe", "phone": "555 123 4567"} as far as I can tell.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"5551234567"}, res.Phone)
	assert.Contains(t, res.RawText, "The card reads", "raw text falls back to the reply")
}

func TestParseResponse_BlankFieldsAreAbsent(t *testing.T) {
	t.Parallel()
	res, err := parseResponse(`{"name": "  ", "company": "Acme", "phone": ["", " "]}`)
	require.NoError(t, err)
	assert.Nil(t, res.Name)
	assert.Nil(t, res.Phone)
	assert.InDelta(t, 0.19, res.Confidence, 1e-9)
}

func TestParseResponse_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		reply string
		want  error
	}{
		{"prose", "I could not read this card.", ErrUnparseable},
		{"array", `["John"]`, ErrUnparseable},
		{"wrong type", `{"name": 42}`, ErrUnparseable},
		{"phone object", `{"name": "Jo Lee", "phone": {"work": "1"}}`, ErrUnparseable},
		{"all null", `{"name": null, "email": null}`, ErrEmpty},
		{"empty object", `{}`, ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseResponse(tt.reply)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseResponse_PhonesNormalized(t *testing.T) {
	t.Parallel()
	res, err := parseResponse(`{"name": "Jane Roe", "phone": ["(555) 123-4567", "ext 12", "555.123.4567", "+44 20 7946 0958"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"5551234567", "+442079460958"}, res.Phone)

	// Results built outside the parser are normalized on conversion.
	raw := Result{Name: model.Str("Jane Roe"), Phone: []string{"(555) 123-4567", "12"}}
	assert.Equal(t, []string{"5551234567"}, raw.Contact().Phone)
}

func TestResult_ComputeConfidence(t *testing.T) {
	t.Parallel()
	s := model.Str
	tests := []struct {
		name string
		res  Result
		want float64
	}{
		{"none", Result{Website: s("x.com")}, 0},
		{"one", Result{Email: s("a@b.com")}, 0.19},
		{"three", Result{Name: s("A B"), Email: s("a@b.com"), Phone: []string{"1"}}, 0.57},
		{"all five", Result{Name: s("A B"), Email: s("a@b.com"), Phone: []string{"1"}, Company: s("C"), Title: s("CEO")}, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.res.computeConfidence(), 1e-9)
		})
	}
}

func TestResult_ContactAndFallback(t *testing.T) {
	t.Parallel()
	res, err := parseResponse(fullReply)
	require.NoError(t, err)

	c := res.Contact()
	assert.Equal(t, "William", model.Value(c.FirstName))
	assert.Equal(t, "Miller", model.Value(c.LastName))
	assert.Equal(t, "info@realty.com", model.Value(c.Email))

	c.Phone[0] = "changed"
	assert.Equal(t, "5559876543", res.Phone[0], "contact is a copy")

	fb := res.Fallback()
	assert.InDelta(t, res.Confidence, fb.Confidence, 1e-9)
	assert.Equal(t, res.RawText, fb.RawText)
	assert.Equal(t, "Miller Realty Group", model.Value(fb.Contact.Company))
}
