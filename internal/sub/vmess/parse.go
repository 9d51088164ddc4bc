// Package vmess parses vmess:// share links: base64-wrapped JSON objects
// following the v2rayN field convention (ps/add/port/id/aid/scy/net/tls/...).
//
// Client implementations disagree on field types (port and aid appear both
// as JSON numbers and as strings), so the payload decoding is deliberately
// loose. Any malformed line is rejected with ok=false.
package vmess

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/John-Robertt/clashgen-go/internal/b64"
	"github.com/John-Robertt/clashgen-go/internal/model"
)

const scheme = "vmess://"

// payload mirrors the share-link JSON. flexInt absorbs the string/number
// ambiguity; unknown fields are ignored.
type payload struct {
	PS          string  `json:"ps"`
	Remark      string  `json:"remark"`
	Add         string  `json:"add"`
	Host        string  `json:"host"`
	Port        flexInt `json:"port"`
	ID          string  `json:"id"`
	Aid         flexInt `json:"aid"`
	Scy         string  `json:"scy"`
	Net         string  `json:"net"`
	TLS         string  `json:"tls"`
	SNI         string  `json:"sni"`
	ServerName  string  `json:"servername"`
	Path        string  `json:"path"`
	ServiceName string  `json:"serviceName"`
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// Parse converts one vmess:// line into a node. ok is false when the base64
// or JSON layer is malformed, or when server, port, or uuid is missing.
func Parse(line string) (model.Vmess, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, scheme) {
		return model.Vmess{}, false
	}
	rest := strings.TrimSpace(line[len(scheme):])
	if rest == "" {
		return model.Vmess{}, false
	}

	text, strict, err := b64.DecodeTextStrict(rest)
	if err != nil {
		return model.Vmess{}, false
	}
	_ = strict // lossy text is still attempted as JSON

	var conf payload
	if err := json.Unmarshal([]byte(text), &conf); err != nil {
		return model.Vmess{}, false
	}

	name := firstNonEmpty(conf.PS, conf.Remark, "vmess")
	server := firstNonEmpty(conf.Add, conf.Host)
	sni := firstNonEmpty(conf.SNI, conf.ServerName, conf.Host)

	if server == "" || conf.Port == 0 || conf.ID == "" {
		return model.Vmess{}, false
	}

	p := model.Vmess{
		Name:    name,
		Server:  server,
		Port:    int(conf.Port),
		UUID:    conf.ID,
		AlterID: int(conf.Aid),
		Cipher:  firstNonEmpty(conf.Scy, "auto"),
		Network: firstNonEmpty(conf.Net, "tcp"),
		UDP:     true,
	}

	if strings.EqualFold(conf.TLS, "tls") {
		p.TLS = true
		p.ServerName = sni
	}

	switch p.Network {
	case "ws":
		p.WS = &model.WSOptions{
			Path:       firstNonEmpty(conf.Path, "/"),
			HostHeader: firstNonEmpty(conf.Host, sni),
		}
	case "grpc":
		if svc := firstNonEmpty(conf.Path, conf.ServiceName); svc != "" {
			p.GRPC = &model.GRPCOptions{ServiceName: svc}
		}
	}

	return p, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
