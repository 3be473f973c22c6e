package uploads

import (
	"regexp"
	"strconv"
	"time"
)

// disallowedRune matches everything outside ASCII letters and digits,
// '.', '-', '_', whitespace and the Arabic letters U+0621..U+064A.
var disallowedRune = regexp.MustCompile(`[^a-zA-Z0-9.\-_\x{0621}-\x{064A}\s]`)

// SanitizeName replaces every disallowed character of name with '_'.
// Applying it twice gives the same result as applying it once.
func SanitizeName(name string) string {
	return disallowedRune.ReplaceAllString(name, "_")
}

// GenerateName builds the stored name "<epoch millis>-<sanitized name>"
func GenerateName(t time.Time, original string) string {
	return strconv.FormatInt(t.UnixMilli(), 10) + "-" + SanitizeName(original)
}
