package model

// Provenance records which stage populated each contact field, e.g. "ocr",
// "vlm" or "enrichment:hunter".
type Provenance map[Field]string

// Mark attributes each field to source, keeping any earlier attribution.
func (p Provenance) Mark(source string, fields ...Field) {
	for _, f := range fields {
		if _, ok := p[f]; !ok {
			p[f] = source
		}
	}
}

// FromRecord attributes every populated field of c to source.
func (p Provenance) FromRecord(source string, c *ContactRecord) {
	for _, f := range ScalarFields {
		if !c.IsEmpty(f) {
			p.Mark(source, f)
		}
	}
	if !c.IsEmpty(FieldPhone) {
		p.Mark(source, FieldPhone)
	}
}
