package webwx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

const contentTypeJSON = "application/json; charset=UTF-8"

// Param — пара ключ/значение query-строки. Порядок сохраняется, значения не экранируются:
// pass_ticket приходит от сервиса уже закодированным.
type Param struct {
	Key   string
	Value string
}

// Transport отправляет запросы и накапливает cookie из всех ответов.
// Cookie в запросы сам не подставляет: защищённые вызовы явно собирают заголовок из Cookies().
type Transport struct {
	client  *http.Client
	cookies *domain.CookieSet
	logger  *slog.Logger

	mu     sync.Mutex
	lastTS int64
	now    func() time.Time
}

func NewTransport(client *http.Client, logger *slog.Logger) *Transport {
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	// редиректы не выполняем: cookie из ответа 3xx иначе потеряются
	noFollow := *client
	noFollow.CheckRedirect = stopRedirect
	return &Transport{
		client:  &noFollow,
		cookies: domain.NewCookieSet(),
		logger:  logger,
		now:     time.Now,
	}
}

// NewHTTPClient собирает клиент с таймаутом и необязательным прокси
func NewHTTPClient(timeout time.Duration, proxy string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{
		Transport:     transport,
		Timeout:       timeout,
		CheckRedirect: stopRedirect,
	}, nil
}

func stopRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func (t *Transport) Cookies() *domain.CookieSet {
	return t.cookies
}

// Serialize дописывает параметры к URL как есть
func Serialize(rawURL string, params ...Param) string {
	if len(params) == 0 {
		return rawURL
	}
	var b strings.Builder
	b.WriteString(rawURL)
	sep := byte('?')
	if strings.Contains(rawURL, "?") {
		sep = '&'
	}
	for _, p := range params {
		b.WriteByte(sep)
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
		sep = '&'
	}
	return b.String()
}

// stamp возвращает строго возрастающую метку времени в миллисекундах
func (t *Transport) stamp() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	ts := t.now().UnixMilli()
	if ts <= t.lastTS {
		ts = t.lastTS + 1
	}
	t.lastTS = ts
	return ts
}

// Send выполняет запрос. body != nil сериализуется в JSON.
// Сетевые ошибки возвращаются как *domain.TransportError, повторов на этом уровне нет.
func (t *Transport) Send(ctx context.Context, method, rawURL string, body any, headers map[string]string) ([]byte, error) {
	target := Serialize(rawURL, Param{Key: "r", Value: strconv.FormatInt(t.stamp(), 10)})

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug("request failed", "method", method, "url", rawURL, "error", err)
		return nil, &domain.TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	t.cookies.Merge(resp.Cookies())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}

	t.logger.Debug("request done",
		"method", method,
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return data, nil
}
