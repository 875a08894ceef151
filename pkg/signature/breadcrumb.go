package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/rand"
	"time"
)

const breadcrumbKey = "iN4$aGr0m"

// Breadcrumb returns the user_breadcrumb value sent with comments: a fake
// typing trace for text, signed with the breadcrumb key.
//
// The format is base64(hmac) "\n" base64(trace) "\n" where trace is
// "{len} {typing ms} {change events} {unix ms}".
func Breadcrumb(text string, now time.Time, rnd *rand.Rand) string {
	typingMs := rnd.Intn(12500) + 2500
	changes := len(text) / (rnd.Intn(3) + 3)
	if changes < 1 {
		changes = 1
	}
	trace := fmt.Sprintf("%d %d %d %d", len(text), typingMs, changes, now.UnixMilli())
	encoded := base64.StdEncoding.EncodeToString([]byte(trace))

	mac := hmac.New(sha256.New, []byte(breadcrumbKey))
	mac.Write([]byte(encoded))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return sig + "\n" + encoded + "\n"
}
