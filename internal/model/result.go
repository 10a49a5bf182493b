package model

import "time"

// Extraction methods reported on a Result.
const (
	MethodOCR         = "ocr"
	MethodText        = "text"
	MethodVLM         = "vlm"
	MethodVLMFallback = "vlm_fallback"
)

// FailureKind classifies an unsuccessful Result.
type FailureKind string

// Failure kinds.
const (
	FailureNone        FailureKind = ""
	FailureOCR         FailureKind = "ocr_failure"
	FailureNoContact   FailureKind = "no_contact"
	FailureMalformed   FailureKind = "malformed_input"
	FailureInternal    FailureKind = "internal"
	FailureInvalidFile FailureKind = "invalid_file"
)

// EscalationReport summarizes the escalation decision for one card.
type EscalationReport struct {
	State    string   `json:"state"`
	Reasons  []string `json:"reasons,omitempty"`
	Degraded bool     `json:"degraded"`
}

// Result is the outcome of processing one card. Failures are values, not
// errors: Success is false and FailureKind says why.
type Result struct {
	ID          string      `json:"id"`
	Success     bool        `json:"success"`
	Error       string      `json:"error,omitempty"`
	FailureKind FailureKind `json:"failure_kind,omitempty"`

	Contact         ContactRecord      `json:"contact_data"`
	FieldConfidence FieldConfidence    `json:"field_confidence"`
	Enrichment      *CompanyEnrichment `json:"company_enrichment,omitempty"`
	Provenance      Provenance         `json:"provenance,omitempty"`

	RawText       string           `json:"raw_text"`
	OCRConfidence float64          `json:"ocr_confidence"`
	Method        string           `json:"ocr_method"`
	Escalation    EscalationReport `json:"escalation"`

	Image            string    `json:"image,omitempty"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// BatchResult aggregates per-card results.
type BatchResult struct {
	ID         string   `json:"id"`
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}
