package clash

import (
	"github.com/John-Robertt/clashgen-go/internal/model"
)

// GroupLayout selects the selection-group shape of the generated document.
// The two layouts correspond to the two generation entry points of the
// desktop tool; neither is more canonical, so the choice is a policy knob.
type GroupLayout int

const (
	// LayoutManual emits a single manual select group over all proxies.
	LayoutManual GroupLayout = iota
	// LayoutAutoManual additionally emits a latency-based url-test group,
	// and the manual group offers AUTO and DIRECT ahead of the proxies.
	LayoutAutoManual
)

const (
	ManualGroupName = "MANUAL"
	AutoGroupName   = "AUTO"

	autoTestURL      = "https://cp.cloudflare.com/generate_204"
	autoTestInterval = 300
)

// BuildOptions are the assembler policy parameters.
type BuildOptions struct {
	// Port is the HTTP listening port; the SOCKS port is always Port+1.
	// Defaults to 1082.
	Port     int
	AllowLAN bool
	Layout   GroupLayout

	// SkipCertVerify reproduces the original behavior of disabling
	// certificate verification on every TLS-enabled vmess node. Off by
	// default; the blanket skip weakens transport security.
	SkipCertVerify bool
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.Port <= 0 {
		o.Port = 1082
	}
	return o
}

// Build assembles the document. Pure and deterministic: proxies appear in
// the proxy list and in every group membership list in input order, with no
// sorting and no deduplication.
func Build(proxies []model.Proxy, opt BuildOptions) *Config {
	opt = opt.withDefaults()

	mappings := make([]any, 0, len(proxies))
	names := make([]string, 0, len(proxies))
	for _, p := range proxies {
		m := proxyMapping(p, opt.SkipCertVerify)
		if m == nil {
			continue
		}
		mappings = append(mappings, m)
		names = append(names, p.DisplayName())
	}

	cfg := &Config{
		Port:               opt.Port,
		SocksPort:          opt.Port + 1,
		AllowLAN:           opt.AllowLAN,
		Mode:               "rule",
		LogLevel:           "warning",
		ExternalController: "127.0.0.1:9090",
		Proxies:            mappings,
		ProxyGroups:        buildGroups(names, opt.Layout),
		Rules: []string{
			// First match wins; order is part of the contract.
			"GEOIP,LAN,DIRECT,no-resolve",
			"GEOIP,CN,DIRECT",
			"MATCH," + ManualGroupName,
		},
	}

	if opt.AllowLAN {
		cfg.BindAddress = "*"
	}

	return cfg
}

func buildGroups(names []string, layout GroupLayout) []Group {
	switch layout {
	case LayoutAutoManual:
		manual := make([]string, 0, len(names)+2)
		manual = append(manual, AutoGroupName, "DIRECT")
		manual = append(manual, names...)
		return []Group{
			{
				Name:     AutoGroupName,
				Type:     "url-test",
				Proxies:  names,
				TestURL:  autoTestURL,
				Interval: autoTestInterval,
			},
			{
				Name:    ManualGroupName,
				Type:    "select",
				Proxies: manual,
			},
		}
	default:
		return []Group{
			{
				Name:    ManualGroupName,
				Type:    "select",
				Proxies: names,
			},
		}
	}
}

func proxyMapping(p model.Proxy, skipCertVerify bool) any {
	switch v := p.(type) {
	case model.Shadowsocks:
		return ssProxy{
			Name:     v.Name,
			Type:     "ss",
			Server:   v.Server,
			Port:     v.Port,
			Cipher:   v.Cipher,
			Password: v.Password,
			UDP:      v.UDP,
		}
	case model.Vmess:
		m := vmessProxy{
			Name:    v.Name,
			Type:    "vmess",
			Server:  v.Server,
			Port:    v.Port,
			UUID:    v.UUID,
			AlterID: v.AlterID,
			Cipher:  v.Cipher,
			Network: v.Network,
			UDP:     v.UDP,
		}
		if v.TLS {
			m.TLS = true
			m.SkipCertVerify = skipCertVerify
			m.ServerName = v.ServerName
		}
		if v.WS != nil {
			m.WSOpts = &wsOpts{Path: v.WS.Path}
			if v.WS.HostHeader != "" {
				m.WSOpts.Headers = map[string]string{"Host": v.WS.HostHeader}
			}
		}
		if v.GRPC != nil {
			m.GRPCOpts = &grpcOpts{ServiceName: v.GRPC.ServiceName}
		}
		return m
	default:
		return nil
	}
}
