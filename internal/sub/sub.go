// Package sub turns a fetched subscription body into proxy descriptors:
// base64 blob -> candidate lines -> per-scheme parsers. Unparseable lines
// are dropped silently; resilience here is "skip and continue", never
// "abort the whole subscription".
package sub

import (
	"strings"

	"github.com/John-Robertt/clashgen-go/internal/b64"
	"github.com/John-Robertt/clashgen-go/internal/model"
	"github.com/John-Robertt/clashgen-go/internal/sub/ss"
	"github.com/John-Robertt/clashgen-go/internal/sub/vmess"
)

// SplitLines returns the trimmed, non-empty candidate lines containing
// "://" from a subscription body. A body that already contains "://" is
// treated as raw text (":" is not in either base64 alphabet, so this cannot
// misfire on an encoded blob); anything else is base64-decoded with lossy
// UTF-8 first. It pre-filters only; scheme validation happens per line in
// ParseLine. Idempotent on its own output re-joined with newlines.
func SplitLines(body string) []string {
	text := body
	if !strings.Contains(body, "://") {
		text = b64.DecodeText(body)
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "://") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseLine applies the scheme parsers to one candidate line. ok is false
// for unsupported schemes and for lines the scheme parser rejects.
func ParseLine(line string) (model.Proxy, bool) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "ss://"):
		if p, ok := ss.Parse(line); ok {
			return p, true
		}
	case strings.HasPrefix(line, "vmess://"):
		if p, ok := vmess.Parse(line); ok {
			return p, true
		}
	}
	return nil, false
}

// ParseAll runs ParseLine over every candidate line, keeping input order
// and discarding rejections.
func ParseAll(lines []string) []model.Proxy {
	out := make([]model.Proxy, 0, len(lines))
	for _, line := range lines {
		if p, ok := ParseLine(line); ok {
			out = append(out, p)
		}
	}
	return out
}
