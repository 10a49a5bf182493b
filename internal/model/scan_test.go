package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRawScan_WeightsByLength(t *testing.T) {
	t.Parallel()

	scan := NewRawScan("tesseract", []ScanLine{
		{Text: "JOHN DOE", Confidence: 0.9},      // 8 chars
		{Text: "Engineer", Confidence: 0.5},      // 8 chars
		{Text: "  ", Confidence: 0.99},           // dropped: blank
		{Text: "~~~", Confidence: 0.1},           // dropped: below floor
		{Text: "acme.com", Confidence: 1.7},      // clamped to 1
	})

	assert.Len(t, scan.Lines, 3)
	assert.InDelta(t, (0.9*8+0.5*8+1.0*8)/24, scan.Confidence, 1e-9)
	assert.Equal(t, "JOHN DOE\nEngineer\nacme.com", scan.Text())
	assert.Equal(t, "tesseract", scan.Provider)
}

func TestNewRawScan_Empty(t *testing.T) {
	t.Parallel()

	scan := NewRawScan("mistral", nil)
	assert.Empty(t, scan.Lines)
	assert.Zero(t, scan.Confidence)
	assert.Equal(t, "", scan.Text())
}

func TestCompanyEnrichment_Absorb(t *testing.T) {
	t.Parallel()

	yes := true
	e := CompanyEnrichment{Domain: "acme.com", Sources: []string{SourceEmailDomain}}
	e.Absorb(CompanyEnrichment{
		Domain:           "other.com",
		Organization:     "Acme Inc",
		EmailDeliverable: &yes,
		Sources:          []string{SourceEmailDomain, SourceHunter},
		Errors:           []string{"github: boom"},
	})

	assert.Equal(t, "acme.com", e.Domain)
	assert.Equal(t, "Acme Inc", e.Organization)
	assert.True(t, *e.EmailDeliverable)
	assert.Equal(t, []string{SourceEmailDomain, SourceHunter}, e.Sources)
	assert.Equal(t, []string{"github: boom"}, e.Errors)
}

func TestProvenance_FirstSourceWins(t *testing.T) {
	t.Parallel()

	p := Provenance{}
	p.FromRecord("ocr", &ContactRecord{Name: Str("A B"), Phone: []string{"5551234567"}})
	p.Mark("enrichment:hunter", FieldName, FieldCompany)

	assert.Equal(t, "ocr", p[FieldName])
	assert.Equal(t, "ocr", p[FieldPhone])
	assert.Equal(t, "enrichment:hunter", p[FieldCompany])
}
