package webwx

import (
	"context"
	"net"
	"testing"
)

func TestHostPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://login.weixin.qq.com", "login.weixin.qq.com:443"},
		{"http://127.0.0.1", "127.0.0.1:80"},
		{"socks5://proxy.local", "proxy.local:1080"},
		{"http://[::1]:8080", "[::1]:8080"},
	}
	for _, tt := range tests {
		got, err := hostPort(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("hostPort(%q) = %q, %v; expected %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := hostPort("/no/host"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestIsIPv6Literal(t *testing.T) {
	if !isIPv6Literal("::1") || isIPv6Literal("127.0.0.1") || isIPv6Literal("example.com") {
		t.Error("isIPv6Literal misclassified input")
	}
}

func TestDialReachable(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skip("no tcp4 loopback:", err)
	}
	defer ln.Close()

	if err := dial(context.Background(), discardLogger(), "local", ln.Addr().String()); err != nil {
		t.Fatalf("dial() = %v", err)
	}
}
