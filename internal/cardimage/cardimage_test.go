package cardimage

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// tiffWithOrientation builds a big-endian TIFF with one IFD holding the
// orientation tag.
func tiffWithOrientation(o uint16) []byte {
	var b bytes.Buffer
	b.WriteString("MM\x00*")
	binary.Write(&b, binary.BigEndian, uint32(8))      //nolint:errcheck
	binary.Write(&b, binary.BigEndian, uint16(1))      //nolint:errcheck
	binary.Write(&b, binary.BigEndian, uint16(0x0112)) //nolint:errcheck
	binary.Write(&b, binary.BigEndian, uint16(3))      //nolint:errcheck
	binary.Write(&b, binary.BigEndian, uint32(1))      //nolint:errcheck
	binary.Write(&b, binary.BigEndian, o)              //nolint:errcheck
	binary.Write(&b, binary.BigEndian, uint16(0))      //nolint:errcheck
	binary.Write(&b, binary.BigEndian, uint32(0))      //nolint:errcheck
	return b.Bytes()
}

func jpegWithOrientation(o uint16) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffWithOrientation(o)...)
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&b, binary.BigEndian, uint16(len(payload)+2)) //nolint:errcheck
	b.Write(payload)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

func TestValidator_CheckName(t *testing.T) {
	t.Parallel()
	v := NewValidator(config.UploadConfig{})

	for _, name := range []string{"card.png", "CARD.JPG", "a.jpeg", "b.gif", "c.bmp", "d.webp"} {
		assert.NoError(t, v.CheckName(name), name)
	}
	for _, name := range []string{"card.pdf", "card", "card.exe", "png"} {
		err := v.CheckName(name)
		assert.True(t, eris.Is(err, ErrUnsupportedType), name)
	}
}

func TestValidator_CustomExtensions(t *testing.T) {
	t.Parallel()
	v := NewValidator(config.UploadConfig{AllowedExtensions: []string{".PNG"}})
	assert.NoError(t, v.CheckName("x.png"))
	assert.Error(t, v.CheckName("x.jpg"))
}

func TestValidator_FromBytes(t *testing.T) {
	t.Parallel()
	v := NewValidator(config.UploadConfig{})

	img, err := v.FromBytes("card.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)
	assert.Equal(t, 1, img.Orientation)
	assert.False(t, img.Rotated())
}

func TestValidator_FromBytes_Rejects(t *testing.T) {
	t.Parallel()
	v := NewValidator(config.UploadConfig{MaxBytes: 32})

	_, err := v.FromBytes("card.png", nil)
	assert.True(t, eris.Is(err, ErrEmpty))

	_, err = v.FromBytes("card.png", bytes.Repeat([]byte{0x89}, 33))
	assert.True(t, eris.Is(err, ErrTooLarge))

	_, err = v.FromBytes("card.png", []byte("just some text, not an image"))
	assert.True(t, eris.Is(err, ErrUnsupportedType))
}

func TestValidator_Load(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "card.jpg")
	require.NoError(t, os.WriteFile(path, jpegWithOrientation(6), 0o600))

	v := NewValidator(config.UploadConfig{})
	img, err := v.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, img.Path)
	assert.Equal(t, "card.jpg", img.Name)
	assert.Equal(t, "image/jpeg", img.MediaType)
	assert.Equal(t, 6, img.Orientation)
	assert.True(t, img.Rotated())
}

func TestValidator_Load_TooLarge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "card.png")
	require.NoError(t, os.WriteFile(path, append(pngHeader, make([]byte, 64)...), 0o600))

	v := NewValidator(config.UploadConfig{MaxBytes: 16})
	_, err := v.Load(path)
	assert.True(t, eris.Is(err, ErrTooLarge))
}

func TestValidator_Load_Missing(t *testing.T) {
	t.Parallel()
	v := NewValidator(config.UploadConfig{})
	_, err := v.Load(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cardimage: stat")
}

func TestOrientation(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 8, Orientation(tiffWithOrientation(8)))
	assert.Equal(t, 1, Orientation(tiffWithOrientation(42)))
	assert.Equal(t, 1, Orientation(pngHeader))
	assert.Equal(t, 1, Orientation(nil))
}
