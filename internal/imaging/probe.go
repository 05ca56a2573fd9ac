package imaging

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Probe reads the dimensions from an encoded image without decoding
// pixel data. JPEG, PNG and GIF are supported.
func Probe(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}
	if err := ValidateDimensions(cfg.Width, cfg.Height); err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// ProbeFile reads the dimensions of an image file.
func ProbeFile(path string) (width, height int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return Probe(data)
}

// MIMEForData sniffs the image MIME type from magic bytes, defaulting
// to JPEG for anything unrecognized.
func MIMEForData(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "image/gif"
	case len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
