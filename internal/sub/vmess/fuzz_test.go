package vmess

import "testing"

func FuzzParse(f *testing.F) {
	seed := []string{
		"",
		"vmess://",
		"vmess://eyJhZGQiOiIxLjIuMy40IiwicG9ydCI6NDQzLCJpZCI6InV1aWQxIn0=",
		"vmess://eyJhZGQiOiIxLjIuMy40IiwicG9ydCI6IjQ0MyIsImlkIjoidSIsIm5ldCI6IndzIn0=",
		"vmess://bm90IGpzb24=",
		"ss://YWVzLTI1Ni1nY206cGFzc0AxLjIuMy40OjgxMjM=",
	}
	for _, s := range seed {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, line string) {
		p, ok := Parse(line)
		if !ok {
			return
		}
		if p.Server == "" || p.Port == 0 || p.UUID == "" {
			t.Fatalf("partial descriptor on accepted line %q: %+v", line, p)
		}
		if p.Cipher == "" || p.Network == "" {
			t.Fatalf("defaults not applied on accepted line %q: %+v", line, p)
		}
		if p.Network == "ws" && p.WS == nil {
			t.Fatalf("ws options missing on accepted line %q", line)
		}
		if !p.UDP {
			t.Fatalf("udp not set on accepted line %q", line)
		}
	})
}
