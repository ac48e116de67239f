// Package imaging turns image references (paths or URLs) into embeddable
// payloads for the comparison gateway. Raster images are resized and
// re-encoded as JPEG to bound request size.
package imaging

import (
	"encoding/base64"
	"path"
	"strings"
)

// Payload is a self-describing, binary-safe image ready for embedding in a
// gateway request.
type Payload struct {
	MediaType string
	Data      []byte
	// Degraded marks payloads that fall back to placeholder art because the
	// real image could not be materialized. The flag must survive all the
	// way to the presentation boundary.
	Degraded bool
}

// DataURI encodes the payload as an RFC 2397 data URI.
func (p Payload) DataURI() string {
	return "data:" + p.MediaType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Empty reports whether the payload carries no image bytes.
func (p Payload) Empty() bool {
	return len(p.Data) == 0
}

// mediaTypeForRef guesses a media type from the reference's file extension.
func mediaTypeForRef(ref string) string {
	switch strings.ToLower(path.Ext(ref)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
