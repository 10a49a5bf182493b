package escalation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
)

func conf(v float64) *float64 { return &v }

func fullContact() model.ContactRecord {
	return model.ContactRecord{
		Name:    model.Str("John Doe"),
		Email:   model.Str("john.doe@acme.com"),
		Phone:   []string{"5551234567"},
		Company: model.Str("Acme Inc."),
	}
}

func TestDecide_EmailOnlyLowConfidence(t *testing.T) {
	t.Parallel()

	d := Default().Decide(Input{
		Contact:       model.ContactRecord{Email: model.Str("info@realty.com")},
		OCRConfidence: conf(0.40),
	})

	assert.Equal(t, StateEscalated, d.State)
	assert.True(t, d.Escalated())
	assert.Contains(t, d.Reasons, ReasonLowOCRConfidence)
	assert.Contains(t, d.Reasons, ReasonMissingFields)
}

func TestDecide_Accepted(t *testing.T) {
	t.Parallel()

	d := Default().Decide(Input{Contact: fullContact(), OCRConfidence: conf(0.95)})
	assert.Equal(t, StateAccepted, d.State)
	assert.Empty(t, d.Reasons)
	assert.Equal(t, "accepted", d.String())
}

func TestDecide_NoOCRConfidence(t *testing.T) {
	t.Parallel()

	d := Default().Decide(Input{Contact: fullContact()})
	assert.Equal(t, StateAccepted, d.State)
}

func TestDecide_MonotonicInOCRConfidence(t *testing.T) {
	t.Parallel()
	p := Default()

	prev := StateEscalated
	for i := 0; i <= 100; i++ {
		c := float64(i) / 100
		d := p.Decide(Input{Contact: fullContact(), OCRConfidence: conf(c)})
		if c < 0.70 {
			assert.Equal(t, StateEscalated, d.State, "confidence %.2f", c)
		} else {
			assert.Equal(t, StateAccepted, d.State, "confidence %.2f", c)
		}
		// Once accepted, raising confidence never escalates again.
		if prev == StateAccepted {
			assert.Equal(t, StateAccepted, d.State)
		}
		prev = d.State
	}
}

func TestDecide_Corruption(t *testing.T) {
	t.Parallel()
	p := Default()

	tests := []struct {
		name   string
		mutate func(*model.ContactRecord)
		reason string
	}{
		{"name digits", func(c *model.ContactRecord) { c.Name = model.Str("Wi11iam Miller") }, ReasonNameDigits},
		{"company digits", func(c *model.ContactRecord) { c.Company = model.Str("Ac3m3 1nc") }, ReasonCompanyDigits},
		{"email local digits", func(c *model.ContactRecord) { c.Email = model.Str("j0hn@acme.com") }, ReasonEmailDigits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fullContact()
			tt.mutate(&c)
			d := p.Decide(Input{Contact: c, OCRConfidence: conf(0.9)})
			assert.Equal(t, StateEscalated, d.State)
			assert.Equal(t, []string{tt.reason}, d.Reasons)
		})
	}
}

func TestCorruption_Allowances(t *testing.T) {
	t.Parallel()

	c := fullContact()
	c.Company = model.Str("3M Company")
	c.Email = model.Str("sales@acme2.com")
	assert.Empty(t, Corruption(c))
}

func TestDecide_CorruptionDisabled(t *testing.T) {
	t.Parallel()

	p := New(config.EscalationConfig{OCRThreshold: 0.7, MinKeyFields: 3})
	c := fullContact()
	c.Name = model.Str("J0hn Doe")
	assert.Equal(t, StateAccepted, p.Decide(Input{Contact: c}).State)
}

func TestForce(t *testing.T) {
	t.Parallel()

	d := Default().Force()
	assert.True(t, d.Escalated())
	assert.Equal(t, []string{ReasonForced}, d.Reasons)
	assert.Equal(t, "escalated (forced)", d.String())
}

func TestResolve_Accepted(t *testing.T) {
	t.Parallel()

	h := fullContact()
	out := Resolve(h, Decision{State: StateAccepted}, &Fallback{Contact: model.ContactRecord{Name: model.Str("Other")}}, nil)

	assert.Equal(t, "John Doe", model.Value(out.Contact.Name))
	assert.Equal(t, model.MethodOCR, out.Method)
	assert.False(t, out.Degraded)
	assert.Nil(t, out.FallbackConfidence)
}

func TestResolve_VLMSupersedes(t *testing.T) {
	t.Parallel()

	h := fullContact()
	fb := &Fallback{
		Contact:    model.ContactRecord{Name: model.Str("Jane Roe"), Phone: []string{"5559876543"}},
		RawText:    "Jane Roe",
		Confidence: 0.38,
	}
	d := Decision{State: StateEscalated, Reasons: []string{ReasonLowOCRConfidence}}
	out := Resolve(h, d, fb, nil)

	assert.Equal(t, "Jane Roe", model.Value(out.Contact.Name))
	// Wholesale replacement: heuristic email does not leak through.
	assert.Nil(t, out.Contact.Email)
	assert.Equal(t, model.MethodVLMFallback, out.Method)
	require.NotNil(t, out.FallbackConfidence)
	assert.InDelta(t, 0.38, *out.FallbackConfidence, 0.0001)
	assert.Equal(t, "Jane Roe", out.RawText)
	assert.False(t, out.Degraded)

	// The outcome does not alias the fallback's slices.
	out.Contact.Phone[0] = "x"
	assert.Equal(t, "5559876543", fb.Contact.Phone[0])
}

func TestResolve_Degraded(t *testing.T) {
	t.Parallel()

	h := fullContact()
	d := Decision{State: StateEscalated, Reasons: []string{ReasonMissingFields}}

	for _, tc := range []struct {
		name string
		fb   *Fallback
		err  error
	}{
		{"vlm error", &Fallback{}, errors.New("vlm: timeout")},
		{"vlm unavailable", nil, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := Resolve(h, d, tc.fb, tc.err)
			assert.True(t, out.Degraded)
			assert.True(t, out.Report.Degraded)
			assert.Equal(t, "escalated", out.Report.State)
			assert.Equal(t, "John Doe", model.Value(out.Contact.Name))
			assert.Equal(t, model.MethodOCR, out.Method)
		})
	}
}
