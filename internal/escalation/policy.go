// Package escalation decides whether a heuristic parse can be trusted or the
// card must go to the vision-language model, and resolves the final record
// once the model has answered.
package escalation

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
)

// State is a node of the escalation state machine. Heuristic is the initial
// state; Accepted and Escalated are terminal.
type State string

// Escalation states.
const (
	StateHeuristic State = "heuristic"
	StateAccepted  State = "accepted"
	StateEscalated State = "escalated"
)

// Escalation reasons reported on a Decision.
const (
	ReasonLowOCRConfidence = "low_ocr_confidence"
	ReasonMissingFields    = "missing_key_fields"
	ReasonNameDigits       = "name_contains_digits"
	ReasonCompanyDigits    = "company_digit_density"
	ReasonEmailDigits      = "email_local_part_digits"
	ReasonForced           = "forced"
)

// Input is what Decide looks at. OCRConfidence is nil when the text did not
// come from OCR, in which case the confidence check is skipped.
type Input struct {
	Contact       model.ContactRecord
	OCRConfidence *float64
}

// Decision is the outcome of Decide.
type Decision struct {
	State   State
	Reasons []string
}

// Escalated reports whether the card must go to the VLM.
func (d Decision) Escalated() bool {
	return d.State == StateEscalated
}

// Policy holds the escalation thresholds. It is immutable and safe for
// concurrent use.
type Policy struct {
	threshold        float64
	minKeyFields     int
	detectCorruption bool
}

// New builds a Policy from configuration.
func New(cfg config.EscalationConfig) *Policy {
	return &Policy{
		threshold:        cfg.OCRThreshold,
		minKeyFields:     cfg.MinKeyFields,
		detectCorruption: cfg.DetectCorruption,
	}
}

// Default returns a Policy with threshold 0.70, three key fields and
// corruption detection on.
func Default() *Policy {
	return New(config.EscalationConfig{OCRThreshold: 0.70, MinKeyFields: 3, DetectCorruption: true})
}

// Decide moves a card out of the Heuristic state. Any one failing check
// escalates; every failing check is listed in Reasons.
func (p *Policy) Decide(in Input) Decision {
	var reasons []string

	if in.OCRConfidence != nil && *in.OCRConfidence < p.threshold {
		reasons = append(reasons, ReasonLowOCRConfidence)
	}
	if in.Contact.KeyFieldCount() < p.minKeyFields {
		reasons = append(reasons, ReasonMissingFields)
	}
	if p.detectCorruption {
		reasons = append(reasons, Corruption(in.Contact)...)
	}

	if len(reasons) == 0 {
		return Decision{State: StateAccepted}
	}
	zap.L().Info("escalation: heuristic result rejected",
		zap.Strings("reasons", reasons),
		zap.Int("key_fields", in.Contact.KeyFieldCount()),
	)
	return Decision{State: StateEscalated, Reasons: reasons}
}

// Force returns an Escalated decision regardless of the record.
func (p *Policy) Force() Decision {
	return Decision{State: StateEscalated, Reasons: []string{ReasonForced}}
}

// Corruption lists the OCR-corruption signatures present in c: digits in the
// name, a company that is more than 10% digits (and has more than two), or
// a 1 or 0 in the email local part.
func Corruption(c model.ContactRecord) []string {
	var out []string
	if name := model.Value(c.Name); countDigits(name) > 0 {
		out = append(out, ReasonNameDigits)
	}
	if company := model.Value(c.Company); company != "" {
		n := countDigits(company)
		if n > 2 && float64(n)/float64(len([]rune(company))) > 0.1 {
			out = append(out, ReasonCompanyDigits)
		}
	}
	if email := model.Value(c.Email); email != "" {
		local, _, _ := strings.Cut(email, "@")
		if strings.ContainsAny(local, "10") {
			out = append(out, ReasonEmailDigits)
		}
	}
	return out
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Report converts a decision into the form attached to a Result.
func (d Decision) Report() model.EscalationReport {
	return model.EscalationReport{State: string(d.State), Reasons: d.Reasons}
}

func (d Decision) String() string {
	if len(d.Reasons) == 0 {
		return string(d.State)
	}
	return fmt.Sprintf("%s (%s)", d.State, strings.Join(d.Reasons, ", "))
}
