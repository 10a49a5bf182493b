package scorer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := New(rules.Default(), DefaultWeights())
	require.NoError(t, err)
	return s
}

func acmeRecord() model.ContactRecord {
	return model.ContactRecord{
		Name:    model.Str("John Doe"),
		Title:   model.Str("Senior Engineer"),
		Company: model.Str("Acme Solutions Inc."),
		Email:   model.Str("john.doe@acmesolutions.com"),
		Phone:   []string{"5551234567"},
		Website: model.Str("https://www.acmesolutions.com"),
	}
}

func TestScore_FullCard(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	fc := s.Score(acmeRecord())

	assert.InDelta(t, 1.0, fc.Name, 0.001)
	assert.Equal(t, model.QualityVerified, fc.NameQuality)
	assert.InDelta(t, 1.0, fc.Email, 0.001)
	assert.Equal(t, model.QualityBusinessEmail, fc.EmailQuality)
	assert.InDelta(t, 0.9, fc.Phone, 0.001)
	assert.Equal(t, model.QualityComplete, fc.PhoneQuality)
	assert.InDelta(t, 0.9, fc.Company, 0.001)
	assert.InDelta(t, 1.0, fc.Title, 0.001)
	assert.InDelta(t, 0.9, fc.Website, 0.001)
	assert.Zero(t, fc.Address)
	assert.InDelta(t, 0.915/0.95, fc.Overall, 0.001)
	assert.Greater(t, fc.Overall, 0.7)
}

func TestScore_EmptyRecord(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	fc := s.Score(model.ContactRecord{})

	assert.Zero(t, fc.Overall)
	assert.Equal(t, model.QualityMissing, fc.NameQuality)
	assert.Equal(t, model.QualityMissing, fc.EmailQuality)
	assert.Equal(t, model.QualityMissing, fc.PhoneQuality)
}

func TestScore_Name(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	tests := []struct {
		name    string
		in      string
		score   float64
		quality string
	}{
		{"proper two words", "Jane Smith", 1.0, model.QualityVerified},
		{"single word", "Jane", 0.6, model.QualityVerified},
		{"lowercase", "jane smith", 0.6, model.QualityUncertain},
		{"spacing noise", "Ann   Lee", 0.4, model.QualitySuspicious},
		{"real double l", "Bill Gallo", 1.0, model.QualityVerified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := s.Score(model.ContactRecord{Name: model.Str(tt.in)})
			assert.InDelta(t, tt.score, fc.Name, 0.001)
			assert.Equal(t, tt.quality, fc.NameQuality)
		})
	}

	fc := s.Score(model.ContactRecord{Name: model.Str("Wi11iam Mi11er")})
	assert.Equal(t, model.QualitySuspicious, fc.NameQuality)
	assert.LessOrEqual(t, fc.Name, 0.4+1e-9)
	assert.GreaterOrEqual(t, fc.Name, 0.3-1e-9)
}

func TestScore_Email(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	tests := []struct {
		in      string
		score   float64
		quality string
	}{
		{"bob@acme.com", 1.0, model.QualityBusinessEmail},
		{"bob@gmail.com", 0.9, model.QualityValidFormat},
		{"bob@acme.xyz", 0.9, model.QualityBusinessEmail},
		{"bob@@acme.com", 0.4, model.QualitySuspicious},
		{"not an email", 0, model.QualityInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			fc := s.Score(model.ContactRecord{Email: model.Str(tt.in)})
			assert.InDelta(t, tt.score, fc.Email, 0.001)
			assert.Equal(t, tt.quality, fc.EmailQuality)
		})
	}
}

func TestScore_Phone(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	tests := []struct {
		name    string
		phones  []string
		score   float64
		quality string
	}{
		{"ten digits", []string{"5551234567"}, 0.9, model.QualityComplete},
		{"country code", []string{"+15551234567"}, 1.0, model.QualityComplete},
		{"partial", []string{"5551234"}, 0.7, model.QualityPartial},
		{"fragment", []string{"555"}, 0.3, model.QualityUncertain},
		{"best of several", []string{"555", "5551234567"}, 0.9, model.QualityComplete},
		{"no digits", []string{"ext"}, 0, model.QualityInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := s.Score(model.ContactRecord{Phone: tt.phones})
			assert.InDelta(t, tt.score, fc.Phone, 0.001)
			assert.Equal(t, tt.quality, fc.PhoneQuality)
		})
	}
}

func TestScore_CompanyDigitMisreads(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	tests := []struct {
		company string
		want    float64
	}{
		{"Acme Solutions Inc.", 0.9},
		{"Acm3 S0lut1ons Inc.", 0.7},
		{"3M Company", 0.9},
		{"21st Century Group", 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			fc := s.Score(model.ContactRecord{Company: model.Str(tt.company)})
			assert.InDelta(t, tt.want, fc.Company, 0.001)
		})
	}
}

func TestScore_OtherFields(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	fc := s.Score(model.ContactRecord{
		Company:  model.Str("Acme |! Corp"),
		Title:    model.Str("Gardener"),
		Website:  model.Str("acme.com"),
		Address:  model.Str("123 Main Street, Springfield, IL 62704"),
		LinkedIn: model.Str("https://linkedin.com/in/jdoe"),
		Twitter:  model.Str("@jdoe"),
	})

	assert.InDelta(t, 0.7, fc.Company, 0.001)
	assert.InDelta(t, 0.6, fc.Title, 0.001)
	assert.InDelta(t, 0.5, fc.Website, 0.001)
	assert.InDelta(t, 1.0, fc.Address, 0.001)
	assert.InDelta(t, 0.95, fc.LinkedIn, 0.001)
	assert.InDelta(t, 0.8, fc.Twitter, 0.001)

	fc = s.Score(model.ContactRecord{
		Website:  model.Str("acme"),
		LinkedIn: model.Str("in/jdoe"),
		Twitter:  model.Str("jdoe on twitter"),
		Address:  model.Str("Springfield"),
	})
	assert.InDelta(t, 0.2, fc.Website, 0.001)
	assert.InDelta(t, 0.7, fc.LinkedIn, 0.001)
	assert.InDelta(t, 0.3, fc.Twitter, 0.001)
	assert.InDelta(t, 0.4, fc.Address, 0.001)
}

func TestScore_TwitterWeightZero(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	// Twitter is scored but carries no weight, so it cannot move the overall.
	fc := s.Score(model.ContactRecord{Twitter: model.Str("@jdoe")})
	assert.InDelta(t, 0.8, fc.Twitter, 0.001)
	assert.Zero(t, fc.Overall)
}

func TestScore_Bounds(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)
	r := rand.New(rand.NewPCG(13, 17))

	pieces := []string{"", "John", "Doe", "1", "|", "!", "@", ".", "com", "Inc", "   ", "Street", "IL", "12345", "www", "x"}
	pick := func() *string {
		if r.IntN(4) == 0 {
			return nil
		}
		var b []byte
		for range r.IntN(6) {
			b = append(b, pieces[r.IntN(len(pieces))]...)
			if r.IntN(2) == 0 {
				b = append(b, ' ')
			}
		}
		return model.Str(string(b))
	}

	for range 500 {
		rec := model.ContactRecord{
			Name: pick(), Email: pick(), Company: pick(), Title: pick(),
			Website: pick(), Address: pick(), LinkedIn: pick(), Twitter: pick(),
		}
		if p := pick(); p != nil {
			rec.Phone = []string{*p}
		}
		fc := s.ScoreWithOCR(rec, r.Float64()*1.4-0.2)
		for _, f := range scoredFields {
			v := fc.Get(f)
			assert.GreaterOrEqual(t, v, 0.0, f)
			assert.LessOrEqual(t, v, 1.0, f)
		}
		assert.GreaterOrEqual(t, fc.Overall, 0.0)
		assert.LessOrEqual(t, fc.Overall, 1.0)
	}
}

func TestScoreWithOCR(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)
	rec := acmeRecord()

	base := s.Score(rec).Overall
	assert.InDelta(t, base*0.5, s.ScoreWithOCR(rec, 0.5).Overall, 0.001)
	assert.InDelta(t, base, s.ScoreWithOCR(rec, 1.7).Overall, 0.001)
	assert.Zero(t, s.ScoreWithOCR(rec, -1).Overall)
}

func TestWithRule(t *testing.T) {
	t.Parallel()
	s := newTestScorer(t)

	flat, err := s.WithRule(model.FieldName, func(*model.ContactRecord) (float64, string) {
		return 2, "custom"
	})
	require.NoError(t, err)

	fc := flat.Score(model.ContactRecord{})
	assert.InDelta(t, 1.0, fc.Name, 0.001, "rule output is clamped")
	assert.Equal(t, "custom", fc.NameQuality)

	// Original is unchanged.
	assert.Zero(t, s.Score(model.ContactRecord{}).Name)

	_, err = s.WithRule(model.FieldFirstName, nil)
	assert.Error(t, err)
}

func TestNew_CustomWeights(t *testing.T) {
	t.Parallel()

	s, err := New(rules.Default(), config.WeightsConfig{Email: 1})
	require.NoError(t, err)

	fc := s.Score(acmeRecord())
	assert.InDelta(t, 1.0, fc.Overall, 0.001)
}

func TestValidateWeights(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateWeights(DefaultWeights()))
	assert.InDelta(t, 1.0, WeightSum(DefaultWeights()), 0.0001)

	err := ValidateWeights(config.WeightsConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight sum must be > 0")

	err = ValidateWeights(config.WeightsConfig{Name: 1, Phone: -0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone weight must be >= 0")

	_, err = New(rules.Default(), config.WeightsConfig{})
	assert.Error(t, err)
}
