// Package b64 implements the tolerant base64 handling used throughout the
// subscription pipeline. Feeds in the wild mix standard and URL-safe
// alphabets and routinely strip trailing padding, so the decoder repairs
// padding first and tries both alphabets.
package b64

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// DecodeTolerant decodes s, accepting either base64 alphabet and missing
// trailing padding. Leading/trailing whitespace is ignored; an empty input
// decodes to empty bytes.
func DecodeTolerant(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if pad := (4 - len(s)%4) % 4; pad > 0 {
		s += strings.Repeat("=", pad)
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(s)
}

// DecodeText decodes s and converts the result to text, discarding invalid
// UTF-8 sequences. It never fails: undecodable input yields "".
func DecodeText(s string) string {
	b, err := DecodeTolerant(s)
	if err != nil {
		return ""
	}
	return toValidUTF8(b)
}

// DecodeTextStrict decodes s and reports whether the bytes were valid UTF-8.
// When they are not, the lossy text is still returned so callers can choose
// to continue with it.
func DecodeTextStrict(s string) (string, bool, error) {
	b, err := DecodeTolerant(s)
	if err != nil {
		return "", false, err
	}
	if utf8.Valid(b) {
		return string(b), true, nil
	}
	return toValidUTF8(b), false, nil
}

func toValidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	// Drop invalid sequences instead of substituting U+FFFD: downstream
	// separators must not be padded with replacement runes.
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			sb.WriteRune(r)
		}
		b = b[size:]
	}
	return sb.String()
}
