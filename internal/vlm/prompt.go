package vlm

import (
	"fmt"

	"github.com/sells-group/cardscan/internal/cardimage"
)

const extractionPrompt = `Analyze this business card image and extract ALL contact information.

Return a JSON object with these exact fields (use null if not found):
{
    "name": "Full name of the person",
    "title": "Job title/position",
    "company": "Company/organization name",
    "email": "Email address",
    "phone": ["Array of phone numbers"],
    "website": "Website URL",
    "address": "Full address",
    "linkedin": "LinkedIn URL or handle",
    "raw_text": "All visible text on the card"
}

Rules:
- Extract EXACTLY what you see, don't invent information
- For phone, include all numbers found (mobile, office, fax)
- Clean up any OCR-like errors in text
- If a field is not visible, use null
- Return ONLY valid JSON, no markdown or explanation`

// buildPrompt appends an orientation hint for rotated photos.
func buildPrompt(img cardimage.Image) string {
	if !img.Rotated() {
		return extractionPrompt
	}
	return extractionPrompt + fmt.Sprintf("\n\nThe photo carries EXIF orientation %d; the card may appear rotated or mirrored.", img.Orientation)
}
