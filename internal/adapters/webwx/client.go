package webwx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

const (
	DefaultLoginHost = "https://login.weixin.qq.com"
	DefaultAppID     = "wx782c26e4c19acffb"
	DefaultLang      = "zh_CN"
)

// Client реализует ports.LoginAPI, ports.DirectoryAPI и ports.RoomAPI поверх веб-API
type Client struct {
	transport *Transport
	logger    *slog.Logger

	loginHost string
	appID     string
	lang      string
	deviceID  string
}

type Options struct {
	LoginHost string
	AppID     string
	Lang      string
	DeviceID  string
}

func NewClient(transport *Transport, opts Options, logger *slog.Logger) *Client {
	if opts.LoginHost == "" {
		opts.LoginHost = DefaultLoginHost
	}
	if opts.AppID == "" {
		opts.AppID = DefaultAppID
	}
	if opts.Lang == "" {
		opts.Lang = DefaultLang
	}
	if opts.DeviceID == "" {
		opts.DeviceID = domain.NewDeviceID()
	}
	return &Client{
		transport: transport,
		logger:    logger,
		loginHost: strings.TrimRight(opts.LoginHost, "/"),
		appID:     opts.AppID,
		lang:      opts.Lang,
		deviceID:  opts.DeviceID,
	}
}

func (c *Client) DeviceID() string {
	return c.deviceID
}

// baseResponse — конверт результата во всех JSON-ответах
type baseResponse struct {
	Ret    int
	ErrMsg string
}

type envelope struct {
	BaseResponse baseResponse
}

func (e envelope) check(op string) error {
	if e.BaseResponse.Ret != 0 {
		return &domain.BusinessError{Op: op, Ret: e.BaseResponse.Ret, Msg: e.BaseResponse.ErrMsg}
	}
	return nil
}

// decode разбирает JSON-ответ и проверяет Ret
func decode(op string, data []byte, out interface{ check(string) error }) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.ParseError{Field: op + " json", Body: string(data)}
	}
	return out.check(op)
}

func (c *Client) jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": contentTypeJSON}
}

// protectedHeaders добавляет cookie сессии: без них getcontact и операции с комнатой не работают
func (c *Client) protectedHeaders(s *domain.Session) map[string]string {
	h := c.jsonHeaders()
	cookies := s.Cookies
	if cookies == nil {
		cookies = c.transport.Cookies()
	}
	if header := cookies.Header(domain.SessionCookieNames...); header != "" {
		h["Cookie"] = header
	}
	return h
}

func endpoint(s *domain.Session, name string) string {
	return fmt.Sprintf("%s/%s", s.BaseURL, name)
}
