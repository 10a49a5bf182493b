package model

// Quality labels attached to name, email and phone confidence.
const (
	QualityVerified      = "verified"
	QualityLikely        = "likely"
	QualityUncertain     = "uncertain"
	QualitySuspicious    = "suspicious"
	QualityMissing       = "missing"
	QualityInvalid       = "invalid"
	QualityValidFormat   = "valid_format"
	QualityBusinessEmail = "business_email"
	QualityComplete      = "complete"
	QualityPartial       = "partial"
)

// FieldConfidence holds a per-field confidence in [0,1] for a ContactRecord
// snapshot plus the weighted overall score. It is always recomputed from the
// record and never stored on its own.
type FieldConfidence struct {
	Name     float64 `json:"name"`
	Email    float64 `json:"email"`
	Phone    float64 `json:"phone"`
	Company  float64 `json:"company"`
	Title    float64 `json:"title"`
	Website  float64 `json:"website"`
	Address  float64 `json:"address"`
	LinkedIn float64 `json:"linkedin"`
	Twitter  float64 `json:"twitter"`

	NameQuality  string `json:"name_quality"`
	EmailQuality string `json:"email_quality"`
	PhoneQuality string `json:"phone_quality"`

	Overall float64 `json:"overall"`
}

// Get returns the confidence for a field. FirstName and LastName share the
// name score.
func (fc FieldConfidence) Get(f Field) float64 {
	switch f {
	case FieldName, FieldFirstName, FieldLastName:
		return fc.Name
	case FieldEmail:
		return fc.Email
	case FieldPhone:
		return fc.Phone
	case FieldCompany:
		return fc.Company
	case FieldTitle:
		return fc.Title
	case FieldWebsite:
		return fc.Website
	case FieldAddress:
		return fc.Address
	case FieldLinkedIn:
		return fc.LinkedIn
	case FieldTwitter:
		return fc.Twitter
	}
	return 0
}

// Set stores the confidence for a field.
func (fc *FieldConfidence) Set(f Field, v float64) {
	switch f {
	case FieldName:
		fc.Name = v
	case FieldEmail:
		fc.Email = v
	case FieldPhone:
		fc.Phone = v
	case FieldCompany:
		fc.Company = v
	case FieldTitle:
		fc.Title = v
	case FieldWebsite:
		fc.Website = v
	case FieldAddress:
		fc.Address = v
	case FieldLinkedIn:
		fc.LinkedIn = v
	case FieldTwitter:
		fc.Twitter = v
	}
}
