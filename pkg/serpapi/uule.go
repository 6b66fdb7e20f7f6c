package serpapi

import (
	"encoding/base64"
	"fmt"
)

// BuildUULE encodes a coordinate into the provider's geo-targeting token:
// a length-prefixed, base64-encoded canonical "lat,lng" string. Without it,
// nearby grid points collapse to identical, non-differentiated results.
func BuildUULE(lat, lng float64) string {
	canonical := fmt.Sprintf("%.6f,%.6f", lat, lng)
	payload := make([]byte, 0, len(canonical)+1)
	payload = append(payload, byte(len(canonical)))
	payload = append(payload, canonical...)
	return "w+CAIQICI" + base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(payload)
}

// Near formats the human-readable location hint sent alongside the uule token.
func Near(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}
