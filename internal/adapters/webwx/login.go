package webwx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

// FetchUUID запрашивает uuid. Если код не 200 или uuid не найден, возвращает пустую строку без ошибки:
// решение прервать вход принимает вызывающий.
func (c *Client) FetchUUID(ctx context.Context) (string, error) {
	u := Serialize(c.loginHost+"/jslogin",
		Param{"appid", c.appID},
		Param{"fun", "new"},
		Param{"lang", c.lang},
	)
	data, err := c.transport.Send(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return "", err
	}

	body := string(data)
	code, ok := parseCode(body, "window.QRLogin.code")
	if !ok || code != domain.LoginCodeConfirmed {
		c.logger.Warn("jslogin returned no uuid", "code", code, "found", ok)
		return "", nil
	}
	uuid, _ := parseQuoted(body, "window.QRLogin.uuid")
	return uuid, nil
}

func (c *Client) FetchQR(ctx context.Context, uuid string) ([]byte, error) {
	u := Serialize(c.loginHost+"/qrcode/"+uuid, Param{"t", "webwx"})
	return c.transport.Send(ctx, http.MethodGet, u, nil, nil)
}

// PollLogin один раз опрашивает login. Код, которого нет в ответе, возвращается как LoginCodeUnknown.
func (c *Client) PollLogin(ctx context.Context, uuid string, tip int) (domain.PollResult, error) {
	u := Serialize(c.loginHost+"/cgi-bin/mmwebwx-bin/login",
		Param{"tip", strconv.Itoa(tip)},
		Param{"uuid", uuid},
	)
	data, err := c.transport.Send(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return domain.PollResult{Code: domain.LoginCodeUnknown}, err
	}

	body := string(data)
	code, ok := parseCode(body, "window.code")
	if !ok {
		return domain.PollResult{Code: domain.LoginCodeUnknown}, nil
	}
	res := domain.PollResult{Code: code}
	if code == domain.LoginCodeConfirmed {
		redirect, ok := parseQuoted(body, "redirect_uri")
		if !ok {
			return res, &domain.ParseError{Field: "redirect_uri", Body: body}
		}
		res.RedirectURI = redirect + "&fun=new"
	}
	return res, nil
}

// BaseURL — redirect_uri без query и последнего сегмента пути
func BaseURL(redirectURI string) string {
	path, _, _ := strings.Cut(redirectURI, "?")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return path
}

// FetchSession забирает учётные данные из псевдо-XML ответа по redirect_uri
func (c *Client) FetchSession(ctx context.Context, redirectURI string) (*domain.Session, error) {
	data, err := c.transport.Send(ctx, http.MethodGet, redirectURI, nil, nil)
	if err != nil {
		return nil, err
	}
	body := string(data)

	fields := make(map[string]string, 4)
	for _, tag := range []string{"skey", "wxsid", "wxuin", "pass_ticket"} {
		v, ok := parseTag(body, tag)
		if !ok {
			return nil, &domain.ParseError{Field: tag, Body: body}
		}
		fields[tag] = strings.TrimSpace(v)
	}

	uin, err := strconv.ParseInt(fields["wxuin"], 10, 64)
	if err != nil {
		return nil, &domain.ParseError{Field: "wxuin", Body: body}
	}

	return &domain.Session{
		PassTicket: fields["pass_ticket"],
		Skey:       fields["skey"],
		Sid:        fields["wxsid"],
		Uin:        uin,
		DeviceID:   c.deviceID,
		BaseURL:    BaseURL(redirectURI),
		Cookies:    c.transport.Cookies(),
	}, nil
}
