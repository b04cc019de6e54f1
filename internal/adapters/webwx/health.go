package webwx

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"
)

const dialTimeout = 5 * time.Second

func isIPv6Literal(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.To4() == nil // есть IP и это не IPv4 → IPv6
}

// hostPort достаёт host:port из URL, подставляя порт по схеме
func hostPort(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "socks5", "socks5h":
			port = "1080"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(host, port), nil
}

// dial пробует сначала IPv6, потом IPv4; для IP-литералов только нужное семейство
func dial(ctx context.Context, logger *slog.Logger, name, addr string) error {
	host, _, _ := net.SplitHostPort(addr)
	networks := []string{"tcp6", "tcp4"}
	if ip := net.ParseIP(host); ip != nil {
		networks = []string{"tcp4"}
		if isIPv6Literal(host) {
			networks = []string{"tcp6"}
		}
	}

	var lastErr error
	for _, network := range networks {
		d := net.Dialer{Timeout: dialTimeout}
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			logger.Debug("dial failed", "target", name, "network", network, "addr", addr, "error", err)
			lastErr = err
			continue
		}
		_ = conn.Close()
		logger.Info("reachable", "target", name, "network", network, "addr", addr)
		return nil
	}
	logger.Warn("unreachable", "target", name, "addr", addr, "error", lastErr)
	return lastErr
}

// Preflight проверяет доступность сервиса входа и прокси. Только логирует: запуск не блокирует.
func Preflight(ctx context.Context, logger *slog.Logger, loginHost, proxy string) {
	if proxy == "" {
		logger.Info("proxy disabled, skipping check")
	} else if addr, err := hostPort(proxy); err != nil {
		logger.Error("bad proxy url", "error", err)
	} else {
		_ = dial(ctx, logger, "proxy", addr)
		// через прокси прямой доступ к сервису не показателен
		return
	}

	addr, err := hostPort(loginHost)
	if err != nil {
		logger.Error("bad login host", "error", err)
		return
	}
	_ = dial(ctx, logger, "login_host", addr)
}
