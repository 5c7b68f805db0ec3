package storage

import (
	"encoding/base64"
	"fmt"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300"><rect width="400" height="300" fill="#f3e8ff"/><text x="200" y="140" font-family="sans-serif" font-size="48" text-anchor="middle">%s</text><text x="200" y="190" font-family="sans-serif" font-size="16" fill="#6b21a8" text-anchor="middle">upload unavailable</text></svg>`

// PlaceholderURL returns an inline SVG data URL used when the real upload
// cannot be performed. The submission is still recorded and points are still
// awarded; only the media is lost.
func PlaceholderURL(fileType string) string {
	icon := "📷"
	if fileType == "video" {
		icon = "🎥"
	}
	svg := fmt.Sprintf(placeholderSVG, icon)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
