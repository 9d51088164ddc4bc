// Package clash assembles and serializes the Clash configuration document.
package clash

import (
	"gopkg.in/yaml.v3"
)

// Config is the output document. Field order here fixes the YAML key order.
type Config struct {
	Port               int      `yaml:"port"`
	SocksPort          int      `yaml:"socks-port"`
	AllowLAN           bool     `yaml:"allow-lan"`
	Mode               string   `yaml:"mode"`
	LogLevel           string   `yaml:"log-level"`
	ExternalController string   `yaml:"external-controller"`
	Proxies            []any    `yaml:"proxies"`
	ProxyGroups        []Group  `yaml:"proxy-groups"`
	Rules              []string `yaml:"rules"`

	// BindAddress is "*" when LAN exposure is requested, absent otherwise.
	BindAddress string `yaml:"bind-address,omitempty"`
}

// Group is one selection group entry.
type Group struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"` // "select" | "url-test"
	Proxies []string `yaml:"proxies"`

	// url-test only
	TestURL  string `yaml:"url,omitempty"`
	Interval int    `yaml:"interval,omitempty"`
}

type ssProxy struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Cipher   string `yaml:"cipher"`
	Password string `yaml:"password"`
	UDP      bool   `yaml:"udp"`
}

type vmessProxy struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Server  string `yaml:"server"`
	Port    int    `yaml:"port"`
	UUID    string `yaml:"uuid"`
	AlterID int    `yaml:"alterId"`
	Cipher  string `yaml:"cipher"`
	Network string `yaml:"network"`
	UDP     bool   `yaml:"udp"`

	TLS            bool      `yaml:"tls,omitempty"`
	SkipCertVerify bool      `yaml:"skip-cert-verify,omitempty"`
	ServerName     string    `yaml:"servername,omitempty"`
	WSOpts         *wsOpts   `yaml:"ws-opts,omitempty"`
	GRPCOpts       *grpcOpts `yaml:"grpc-opts,omitempty"`
}

type wsOpts struct {
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

type grpcOpts struct {
	ServiceName string `yaml:"grpc-service-name"`
}

// Marshal serializes the document. A failure here leaves the in-memory
// document untouched and valid.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
