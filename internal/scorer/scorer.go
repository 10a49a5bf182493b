package scorer

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

// FieldRule scores one field of a record. It returns a confidence in [0,1]
// and a quality label ("" when the field has none).
type FieldRule func(rec *model.ContactRecord) (float64, string)

// scoredFields fixes the order in which rules run and the overall is summed,
// so results do not depend on map iteration.
var scoredFields = []model.Field{
	model.FieldName, model.FieldEmail, model.FieldPhone, model.FieldCompany,
	model.FieldTitle, model.FieldWebsite, model.FieldAddress,
	model.FieldLinkedIn, model.FieldTwitter,
}

// Scorer computes FieldConfidence from a strategy table of per-field rules.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	rules   map[model.Field]FieldRule
	weights map[model.Field]float64
}

// New builds a Scorer with the default rule table and the given weights.
func New(rs *rules.RuleSet, w config.WeightsConfig) (*Scorer, error) {
	if err := ValidateWeights(w); err != nil {
		return nil, err
	}
	return &Scorer{
		rules:   defaultRules(rs),
		weights: weightMap(w),
	}, nil
}

// WithRule returns a copy of s that scores f with r.
func (s *Scorer) WithRule(f model.Field, r FieldRule) (*Scorer, error) {
	if _, ok := s.weights[f]; !ok {
		return nil, eris.Errorf("scorer: field %q is not scored", f)
	}
	table := make(map[model.Field]FieldRule, len(s.rules))
	for k, v := range s.rules {
		table[k] = v
	}
	table[f] = r
	return &Scorer{rules: table, weights: s.weights}, nil
}

// Score computes per-field confidence and the weighted overall for rec.
func (s *Scorer) Score(rec model.ContactRecord) model.FieldConfidence {
	var fc model.FieldConfidence
	var weighted, total float64

	for _, f := range scoredFields {
		rule, ok := s.rules[f]
		if !ok {
			continue
		}
		score, quality := rule(&rec)
		score = clamp01(score)
		fc.Set(f, score)

		switch f {
		case model.FieldName:
			fc.NameQuality = quality
		case model.FieldEmail:
			fc.EmailQuality = quality
		case model.FieldPhone:
			fc.PhoneQuality = quality
		}

		if w := s.weights[f]; score > 0 && w > 0 {
			weighted += w * score
			total += w
		}
	}

	if total > 0 {
		fc.Overall = clamp01(weighted / total)
	}
	return fc
}

// ScoreWithOCR is Score with the overall scaled by the OCR confidence.
func (s *Scorer) ScoreWithOCR(rec model.ContactRecord, ocrConfidence float64) model.FieldConfidence {
	fc := s.Score(rec)
	fc.Overall = clamp01(fc.Overall * clamp01(ocrConfidence))
	return fc
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
