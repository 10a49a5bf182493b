package model

import "strings"

// Field names a ContactRecord field. The string value doubles as the JSON key.
type Field string

// Contact fields.
const (
	FieldName      Field = "name"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldTitle     Field = "title"
	FieldCompany   Field = "company"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
	FieldWebsite   Field = "website"
	FieldAddress   Field = "address"
	FieldLinkedIn  Field = "linkedin"
	FieldTwitter   Field = "twitter"
)

// ScalarFields lists the optional string fields of a ContactRecord in
// display order.
var ScalarFields = []Field{
	FieldName, FieldFirstName, FieldLastName, FieldTitle, FieldCompany,
	FieldEmail, FieldWebsite, FieldAddress, FieldLinkedIn, FieldTwitter,
}

// KeyFields are the fields counted when deciding whether a heuristic parse
// found enough to be trusted.
var KeyFields = []Field{FieldName, FieldEmail, FieldPhone, FieldCompany}

// ContactRecord is the structured result of parsing one business card.
// A nil pointer means the field was not found; a non-nil empty string means
// it was found but empty.
type ContactRecord struct {
	Name      *string  `json:"name"`
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Title     *string  `json:"title"`
	Company   *string  `json:"company"`
	Email     *string  `json:"email"`
	Phone     []string `json:"phone"`
	Website   *string  `json:"website"`
	Address   *string  `json:"address"`
	LinkedIn  *string  `json:"linkedin"`
	Twitter   *string  `json:"twitter"`

	RawText         string  `json:"raw_text"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// Value dereferences p, returning "" for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ptr returns the address of the named scalar field, or nil for phone and
// unknown fields.
func (c *ContactRecord) ptr(f Field) **string {
	switch f {
	case FieldName:
		return &c.Name
	case FieldFirstName:
		return &c.FirstName
	case FieldLastName:
		return &c.LastName
	case FieldTitle:
		return &c.Title
	case FieldCompany:
		return &c.Company
	case FieldEmail:
		return &c.Email
	case FieldWebsite:
		return &c.Website
	case FieldAddress:
		return &c.Address
	case FieldLinkedIn:
		return &c.LinkedIn
	case FieldTwitter:
		return &c.Twitter
	}
	return nil
}

// Get returns the value of a scalar field.
func (c *ContactRecord) Get(f Field) *string {
	if p := c.ptr(f); p != nil {
		return *p
	}
	return nil
}

// Set assigns a scalar field. Setting FieldPhone or an unknown field is a no-op.
func (c *ContactRecord) Set(f Field, v *string) {
	if p := c.ptr(f); p != nil {
		*p = v
	}
}

// IsEmpty reports whether the field holds no usable value: absent, blank,
// or for phone an empty list.
func (c *ContactRecord) IsEmpty(f Field) bool {
	if f == FieldPhone {
		return len(c.Phone) == 0
	}
	v := c.Get(f)
	return v == nil || strings.TrimSpace(*v) == ""
}

// HasContact reports whether a name, email or phone was found.
func (c *ContactRecord) HasContact() bool {
	return !c.IsEmpty(FieldName) || !c.IsEmpty(FieldEmail) || !c.IsEmpty(FieldPhone)
}

// KeyFieldCount returns how many of KeyFields are populated.
func (c *ContactRecord) KeyFieldCount() int {
	n := 0
	for _, f := range KeyFields {
		if !c.IsEmpty(f) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (c *ContactRecord) Clone() ContactRecord {
	out := *c
	for _, f := range ScalarFields {
		if v := c.Get(f); v != nil {
			out.Set(f, Str(*v))
		}
	}
	if c.Phone != nil {
		out.Phone = append([]string(nil), c.Phone...)
	}
	return out
}

// SplitName sets FirstName and LastName from Name: the first token is the
// first name, the remaining tokens form the last name.
func (c *ContactRecord) SplitName() {
	parts := strings.Fields(Value(c.Name))
	c.FirstName, c.LastName = nil, nil
	if len(parts) == 0 {
		return
	}
	c.FirstName = Str(parts[0])
	if len(parts) > 1 {
		c.LastName = Str(strings.Join(parts[1:], " "))
	}
}
