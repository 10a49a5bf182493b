// Package cardimage validates card images before they reach OCR or the VLM.
package cardimage

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/config"
)

// DefaultMaxBytes caps uploads at 16 MB.
const DefaultMaxBytes = 16 << 20

// DefaultExtensions are the accepted file extensions, without the dot.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"}

// Validation errors.
var (
	ErrUnsupportedType = eris.New("cardimage: unsupported file type")
	ErrTooLarge        = eris.New("cardimage: file too large")
	ErrEmpty           = eris.New("cardimage: file is empty")
)

// Image is a validated card image held in memory.
type Image struct {
	Path      string
	Name      string
	MediaType string
	Data      []byte

	// Orientation is the EXIF orientation tag (1-8); 1 when absent.
	Orientation int
}

// Rotated reports whether the EXIF orientation says the card is not upright.
func (i Image) Rotated() bool {
	return i.Orientation > 1
}

// Validator checks extension, size and content type.
type Validator struct {
	maxBytes int64
	allowed  map[string]bool
}

// NewValidator creates a Validator from upload config, falling back to
// DefaultMaxBytes and DefaultExtensions for zero values.
func NewValidator(cfg config.UploadConfig) *Validator {
	v := &Validator{maxBytes: cfg.MaxBytes, allowed: map[string]bool{}}
	if v.maxBytes <= 0 {
		v.maxBytes = DefaultMaxBytes
	}
	exts := cfg.AllowedExtensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, e := range exts {
		v.allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return v
}

// MaxBytes returns the size cap.
func (v *Validator) MaxBytes() int64 { return v.maxBytes }

// CheckName validates the file extension of name.
func (v *Validator) CheckName(name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !v.allowed[ext] {
		return eris.Wrapf(ErrUnsupportedType, "extension %q", ext)
	}
	return nil
}

// Load reads and validates the image at path.
func (v *Validator) Load(path string) (Image, error) {
	if err := v.CheckName(path); err != nil {
		return Image{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Image{}, eris.Wrapf(err, "cardimage: stat %s", path)
	}
	if info.Size() > v.maxBytes {
		return Image{}, eris.Wrapf(ErrTooLarge, "%d bytes exceeds %d", info.Size(), v.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, eris.Wrapf(err, "cardimage: read %s", path)
	}
	img, err := v.FromBytes(filepath.Base(path), data)
	if err != nil {
		return Image{}, err
	}
	img.Path = path
	return img, nil
}

// FromBytes validates an image already in memory.
func (v *Validator) FromBytes(name string, data []byte) (Image, error) {
	if err := v.CheckName(name); err != nil {
		return Image{}, err
	}
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	if int64(len(data)) > v.maxBytes {
		return Image{}, eris.Wrapf(ErrTooLarge, "%d bytes exceeds %d", len(data), v.maxBytes)
	}

	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return Image{}, eris.Wrapf(ErrUnsupportedType, "content is %s", mediaType)
	}

	return Image{
		Name:        name,
		MediaType:   mediaType,
		Data:        data,
		Orientation: Orientation(data),
	}, nil
}

// Orientation returns the EXIF orientation of data, or 1 when the image
// carries no readable EXIF block.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		zap.L().Debug("cardimage: ignoring bad orientation tag", zap.Error(err))
		return 1
	}
	return o
}
