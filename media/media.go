package media

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxUploadSize caps raw uploads before any processing.
	MaxUploadSize = 20 * 1024 * 1024

	// Images get recompressed to stay well under the storage quota.
	maxDimension = 1200
	jpegQuality  = 80
)

// Classify maps a MIME type to the submission file type. Anything that is
// not an image is treated as video.
func Classify(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return "image"
	}
	return "video"
}

// CompressImage re-encodes an image as bounded-resolution JPEG. Videos are
// never transcoded; callers only size-check them.
func CompressImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	// Always re-encode as JPEG, even when the source fits the bounds; JPEG
	// output is what keeps the storage bucket within its quota.
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
