// Package scorer assigns per-field and overall confidence to contact records.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
)

// DefaultWeights returns the default field weights. They sum to 1; twitter
// is scored but does not count toward the overall confidence.
func DefaultWeights() config.WeightsConfig {
	return config.WeightsConfig{
		Name:     0.25,
		Email:    0.25,
		Phone:    0.15,
		Company:  0.15,
		Title:    0.10,
		Website:  0.05,
		Address:  0.03,
		LinkedIn: 0.02,
		Twitter:  0,
	}
}

// WeightSum returns the sum of all field weights.
func WeightSum(w config.WeightsConfig) float64 {
	return w.Name + w.Email + w.Phone + w.Company + w.Title +
		w.Website + w.Address + w.LinkedIn + w.Twitter
}

// ValidateWeights checks that every weight is non-negative and that at least
// one is positive.
func ValidateWeights(w config.WeightsConfig) error {
	var errs []string
	for f, v := range weightMap(w) {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", f))
		}
	}
	if WeightSum(w) <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	if len(errs) > 0 {
		return eris.Errorf("scorer: weights validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func weightMap(w config.WeightsConfig) map[model.Field]float64 {
	return map[model.Field]float64{
		model.FieldName:     w.Name,
		model.FieldEmail:    w.Email,
		model.FieldPhone:    w.Phone,
		model.FieldCompany:  w.Company,
		model.FieldTitle:    w.Title,
		model.FieldWebsite:  w.Website,
		model.FieldAddress:  w.Address,
		model.FieldLinkedIn: w.LinkedIn,
		model.FieldTwitter:  w.Twitter,
	}
}
