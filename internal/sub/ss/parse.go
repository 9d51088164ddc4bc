// Package ss parses ss:// share links.
//
// Two encodings circulate for the same link:
//
//	ss://BASE64(method:password@host:port)#tag
//	ss://method:password@host:port#tag
//
// Third-party subscription sources emit both, often with the URL-safe
// alphabet and without padding, so the parser is tolerant: any malformed
// line is rejected with ok=false and never aborts the batch.
package ss

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/John-Robertt/clashgen-go/internal/b64"
	"github.com/John-Robertt/clashgen-go/internal/model"
)

const scheme = "ss://"

// Parse converts one ss:// line into a node. ok is false for anything
// malformed; a partially-filled node is never returned.
func Parse(line string) (model.Shadowsocks, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, scheme) {
		return model.Shadowsocks{}, false
	}
	rest := strings.TrimSpace(line[len(scheme):])

	// Fragment is the display name, percent-encoded.
	tag := ""
	if before, frag, ok := strings.Cut(rest, "#"); ok {
		rest = before
		if decoded, err := url.PathUnescape(strings.TrimSpace(frag)); err == nil {
			tag = strings.TrimSpace(decoded)
		}
	}

	// Query carries SIP002 plugin parameters; not supported, drop it.
	if before, _, ok := strings.Cut(rest, "?"); ok {
		rest = before
	}
	rest = strings.TrimSpace(rest)

	// Disambiguate the two encodings. A cleartext form always has an "@"
	// with "method:password" in front of it; anything else is base64.
	decoded := rest
	if at := strings.Index(rest, "@"); at < 0 || !strings.Contains(rest[:at], ":") {
		decoded = strings.TrimSpace(b64.DecodeText(rest))
	} else {
		if un, err := url.PathUnescape(rest); err == nil {
			decoded = un
		}
	}

	auth, hostPort, ok := strings.Cut(decoded, "@")
	if !ok {
		return model.Shadowsocks{}, false
	}
	method, password, ok := strings.Cut(auth, ":")
	if !ok {
		return model.Shadowsocks{}, false
	}

	host, port, ok := splitHostPort(strings.TrimSpace(hostPort))
	if !ok {
		return model.Shadowsocks{}, false
	}

	name := tag
	if name == "" {
		name = fmt.Sprintf("ss@%s:%d", host, port)
	}

	return model.Shadowsocks{
		Name:     name,
		Server:   host,
		Port:     port,
		Cipher:   method,
		Password: password,
		UDP:      true,
	}, true
}

// splitHostPort splits "host:port", accepting bracketed IPv6 literals
// ("[::1]:8443"). The port is parsed as a decimal integer without range
// validation; out-of-range values propagate downstream.
func splitHostPort(hp string) (string, int, bool) {
	if strings.HasPrefix(hp, "[") {
		end := strings.Index(hp, "]")
		if end < 0 {
			return "", 0, false
		}
		host := hp[1:end]
		tail := hp[end+1:]
		if host == "" || !strings.HasPrefix(tail, ":") {
			return "", 0, false
		}
		port, err := strconv.Atoi(tail[1:])
		if err != nil {
			return "", 0, false
		}
		return host, port, true
	}

	colon := strings.LastIndex(hp, ":")
	if colon <= 0 {
		return "", 0, false
	}
	port, err := strconv.Atoi(hp[colon+1:])
	if err != nil {
		return "", 0, false
	}
	return hp[:colon], port, true
}
