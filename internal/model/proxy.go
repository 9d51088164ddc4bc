package model

// Proxy is the uniform node representation produced by the share-link
// parsers. Each supported scheme gets its own concrete type; the interface
// only exposes what the assembler needs for group membership.
type Proxy interface {
	// DisplayName is the label used in the proxies list and in group
	// membership. It is not guaranteed to be unique.
	DisplayName() string
	Kind() string
}

// Shadowsocks is a node parsed from an ss:// share link.
type Shadowsocks struct {
	Name     string
	Server   string
	Port     int
	Cipher   string
	Password string

	// UDP is always true for nodes produced by this generator.
	UDP bool
}

func (p Shadowsocks) DisplayName() string { return p.Name }
func (p Shadowsocks) Kind() string        { return "ss" }

// Vmess is a node parsed from a vmess:// share link (base64-wrapped JSON).
type Vmess struct {
	Name    string
	Server  string
	Port    int
	UUID    string
	AlterID int
	Cipher  string

	// Network is the transport mode: tcp/ws/grpc/...
	Network string

	TLS bool
	// ServerName overrides SNI when non-empty. Only meaningful with TLS.
	ServerName string

	WS   *WSOptions
	GRPC *GRPCOptions

	UDP bool
}

func (p Vmess) DisplayName() string { return p.Name }
func (p Vmess) Kind() string        { return "vmess" }

// WSOptions carries websocket transport options.
type WSOptions struct {
	Path string
	// HostHeader, when non-empty, is emitted as the HTTP Host header override.
	HostHeader string
}

// GRPCOptions carries gRPC transport options.
type GRPCOptions struct {
	ServiceName string
}
