package clash

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/clashgen-go/internal/model"
)

func twoNodes() []model.Proxy {
	return []model.Proxy{
		model.Shadowsocks{Name: "A", Server: "1.2.3.4", Port: 8388, Cipher: "aes-256-gcm", Password: "pw", UDP: true},
		model.Vmess{Name: "B", Server: "5.6.7.8", Port: 443, UUID: "u", Cipher: "auto", Network: "tcp", UDP: true},
	}
}

func TestBuild_ManualLayout(t *testing.T) {
	cfg := Build(twoNodes(), BuildOptions{Port: 1082, AllowLAN: true})

	if cfg.Port != 1082 || cfg.SocksPort != 1083 {
		t.Fatalf("port/socks-port=%d/%d, want 1082/1083", cfg.Port, cfg.SocksPort)
	}
	if !cfg.AllowLAN {
		t.Fatalf("allow-lan=false, want true")
	}
	if cfg.BindAddress != "*" {
		t.Fatalf("bind-address=%q, want *", cfg.BindAddress)
	}
	if cfg.Mode != "rule" || cfg.LogLevel != "warning" || cfg.ExternalController != "127.0.0.1:9090" {
		t.Fatalf("unexpected fixed fields: %+v", cfg)
	}
	if len(cfg.ProxyGroups) != 1 {
		t.Fatalf("groups=%d, want 1", len(cfg.ProxyGroups))
	}
	g := cfg.ProxyGroups[0]
	if g.Name != "MANUAL" || g.Type != "select" {
		t.Fatalf("group=%+v", g)
	}
	if len(g.Proxies) != 2 || g.Proxies[0] != "A" || g.Proxies[1] != "B" {
		t.Fatalf("group members=%q, want [A B]", g.Proxies)
	}

	wantRules := []string{
		"GEOIP,LAN,DIRECT,no-resolve",
		"GEOIP,CN,DIRECT",
		"MATCH,MANUAL",
	}
	if len(cfg.Rules) != len(wantRules) {
		t.Fatalf("rules=%q", cfg.Rules)
	}
	for i := range wantRules {
		if cfg.Rules[i] != wantRules[i] {
			t.Fatalf("rule[%d]=%q, want %q", i, cfg.Rules[i], wantRules[i])
		}
	}
}

func TestBuild_AutoManualLayout(t *testing.T) {
	cfg := Build(twoNodes(), BuildOptions{Port: 1082, Layout: LayoutAutoManual})

	if len(cfg.ProxyGroups) != 2 {
		t.Fatalf("groups=%d, want 2", len(cfg.ProxyGroups))
	}
	auto := cfg.ProxyGroups[0]
	if auto.Name != "AUTO" || auto.Type != "url-test" {
		t.Fatalf("auto group=%+v", auto)
	}
	if auto.TestURL == "" || auto.Interval != 300 {
		t.Fatalf("auto strategy fields=%q/%d", auto.TestURL, auto.Interval)
	}
	if len(auto.Proxies) != 2 || auto.Proxies[0] != "A" || auto.Proxies[1] != "B" {
		t.Fatalf("auto members=%q", auto.Proxies)
	}

	manual := cfg.ProxyGroups[1]
	want := []string{"AUTO", "DIRECT", "A", "B"}
	if len(manual.Proxies) != len(want) {
		t.Fatalf("manual members=%q, want %q", manual.Proxies, want)
	}
	for i := range want {
		if manual.Proxies[i] != want[i] {
			t.Fatalf("manual[%d]=%q, want %q", i, manual.Proxies[i], want[i])
		}
	}

	if cfg.AllowLAN {
		t.Fatalf("allow-lan=true, want false")
	}
	if cfg.BindAddress != "" {
		t.Fatalf("bind-address=%q, want absent", cfg.BindAddress)
	}
}

func TestBuild_DefaultPort(t *testing.T) {
	cfg := Build(nil, BuildOptions{})
	if cfg.Port != 1082 || cfg.SocksPort != 1083 {
		t.Fatalf("port/socks-port=%d/%d, want defaults 1082/1083", cfg.Port, cfg.SocksPort)
	}
}

func TestBuild_OrderNoDedup(t *testing.T) {
	nodes := []model.Proxy{
		model.Shadowsocks{Name: "X", Server: "h", Port: 1, Cipher: "c", Password: "p", UDP: true},
		model.Shadowsocks{Name: "X", Server: "h", Port: 1, Cipher: "c", Password: "p", UDP: true},
	}
	cfg := Build(nodes, BuildOptions{})
	if len(cfg.Proxies) != 2 {
		t.Fatalf("proxies=%d, want 2 (no dedup)", len(cfg.Proxies))
	}
	g := cfg.ProxyGroups[0]
	if len(g.Proxies) != 2 || g.Proxies[0] != "X" || g.Proxies[1] != "X" {
		t.Fatalf("members=%q", g.Proxies)
	}
}

func TestMarshal_VmessFields(t *testing.T) {
	nodes := []model.Proxy{
		model.Vmess{
			Name: "tls-ws", Server: "s.example", Port: 443, UUID: "u",
			AlterID: 2, Cipher: "auto", Network: "ws",
			TLS: true, ServerName: "sni.example",
			WS:  &model.WSOptions{Path: "/sub", HostHeader: "cdn.example"},
			UDP: true,
		},
	}
	out, err := Build(nodes, BuildOptions{SkipCertVerify: true}).Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"alterId: 2",
		"tls: true",
		"skip-cert-verify: true",
		"servername: sni.example",
		"path: /sub",
		"Host: cdn.example",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	// Round-trip sanity: the document stays a valid mapping.
	var doc map[string]any
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := doc["bind-address"]; ok {
		t.Fatalf("bind-address present without allow-lan")
	}
}

func TestMarshal_SkipCertVerifyDefaultOff(t *testing.T) {
	nodes := []model.Proxy{
		model.Vmess{Name: "n", Server: "s", Port: 443, UUID: "u", Cipher: "auto", Network: "tcp", TLS: true, UDP: true},
	}
	out, err := Build(nodes, BuildOptions{}).Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "skip-cert-verify") {
		t.Fatalf("skip-cert-verify emitted without the option:\n%s", out)
	}
}
