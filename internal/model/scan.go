package model

import "strings"

// ScanLine is one detected text segment with its OCR confidence in [0,1].
type ScanLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// RawScan is the OCR output for one image, lines ordered top to bottom.
type RawScan struct {
	Lines      []ScanLine `json:"lines"`
	Confidence float64    `json:"confidence"`
	Provider   string     `json:"provider"`
}

// MinSegmentConfidence is the floor below which OCR segments are discarded.
const MinSegmentConfidence = 0.15

// NewRawScan builds a scan from detected segments. Segments under
// MinSegmentConfidence or without text are dropped; the aggregate confidence
// is the mean of the remaining segments weighted by text length.
func NewRawScan(provider string, segments []ScanLine) RawScan {
	scan := RawScan{Provider: provider}
	var weighted, total float64
	for _, s := range segments {
		text := strings.TrimSpace(s.Text)
		if text == "" || s.Confidence < MinSegmentConfidence {
			continue
		}
		conf := clamp01(s.Confidence)
		scan.Lines = append(scan.Lines, ScanLine{Text: text, Confidence: conf})
		w := float64(len([]rune(text)))
		weighted += conf * w
		total += w
	}
	if total > 0 {
		scan.Confidence = weighted / total
	}
	return scan
}

// Text joins the scan lines with newlines.
func (s RawScan) Text() string {
	parts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
