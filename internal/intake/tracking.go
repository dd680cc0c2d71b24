package intake

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TrackingPrefix tags every tracking number handed to a caller.
const TrackingPrefix = "TRK-"

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var trackingPattern = regexp.MustCompile(`^TRK-[A-Za-z0-9-]{1,64}$`)

// NewTrackingNumber issues a caller-facing reference of the form
// TRK-<unix millis>-<6 random chars>. The random suffix keeps two
// submissions landing in the same millisecond from colliding.
func NewTrackingNumber(millis int64) string {
	return fmt.Sprintf("%s%d-%s", TrackingPrefix, millis, randomSuffix(6))
}

// ValidTrackingNumber reports whether a client-supplied tracking number
// is acceptable to persist as-is.
func ValidTrackingNumber(s string) bool {
	return trackingPattern.MatchString(s)
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to a time-derived suffix so the format stays intact.
		s := strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))
		if len(s) > n {
			s = s[len(s)-n:]
		}
		return s
	}
	for i := range b {
		b[i] = trackingAlphabet[int(b[i])%len(trackingAlphabet)]
	}
	return string(b)
}
