package escalation

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/model"
)

// Fallback is a record produced by the VLM with the confidence the model
// client computed for it.
type Fallback struct {
	Contact    model.ContactRecord
	RawText    string
	Confidence float64
}

// Outcome is the record chosen after escalation.
type Outcome struct {
	Contact  model.ContactRecord
	Method   string
	Degraded bool
	Report   model.EscalationReport

	// FallbackConfidence is set when the VLM record won; it replaces the
	// scorer's overall confidence.
	FallbackConfidence *float64
	RawText            string
}

// Resolve picks the final record. An Accepted decision keeps the heuristic
// record. An Escalated decision with a VLM answer replaces it wholesale.
// An Escalated decision without one keeps the heuristic record and marks the
// outcome degraded.
func Resolve(heuristic model.ContactRecord, d Decision, fb *Fallback, fbErr error) Outcome {
	out := Outcome{Contact: heuristic, Method: model.MethodOCR, Report: d.Report()}
	if !d.Escalated() {
		return out
	}

	if fbErr == nil && fb != nil {
		conf := clamp01(fb.Confidence)
		out.Contact = fb.Contact.Clone()
		out.Method = model.MethodVLMFallback
		out.FallbackConfidence = &conf
		out.RawText = fb.RawText
		return out
	}

	out.Degraded = true
	out.Report.Degraded = true
	fields := []zap.Field{zap.Strings("reasons", d.Reasons)}
	if fbErr != nil {
		fields = append(fields, zap.Error(fbErr))
	} else {
		fields = append(fields, zap.String("cause", "vlm unavailable"))
	}
	zap.L().Warn("escalation: vlm fallback failed, keeping heuristic result", fields...)
	return out
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
