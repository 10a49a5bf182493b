package model

// FillEmpty copies every populated field of src into dst where dst is empty.
// Populated fields of dst are never overwritten. The names of filled fields
// are returned in ScalarFields order, with phone last.
func FillEmpty(dst *ContactRecord, src ContactRecord) []Field {
	var filled []Field
	for _, f := range ScalarFields {
		if src.IsEmpty(f) || !dst.IsEmpty(f) {
			continue
		}
		dst.Set(f, Str(*src.Get(f)))
		filled = append(filled, f)
	}
	if dst.IsEmpty(FieldPhone) && !src.IsEmpty(FieldPhone) {
		dst.Phone = append([]string(nil), src.Phone...)
		filled = append(filled, FieldPhone)
	}
	return filled
}

// FillField sets a single scalar field when it is empty and v is non-blank.
// It reports whether the field was filled.
func FillField(dst *ContactRecord, f Field, v string) bool {
	if v == "" || f == FieldPhone || !dst.IsEmpty(f) {
		return false
	}
	dst.Set(f, Str(v))
	return true
}
