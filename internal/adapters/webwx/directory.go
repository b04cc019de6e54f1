package webwx

import (
	"context"
	"net/http"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

type initRequest struct {
	BaseRequest domain.BaseRequest
}

type initResponse struct {
	envelope
	User domain.Profile
}

type contactResponse struct {
	envelope
	MemberCount int
	MemberList  []domain.Contact
}

func sessionParams(s *domain.Session) []Param {
	return []Param{
		{"pass_ticket", s.PassTicket},
		{"skey", s.Skey},
	}
}

// Profile вызывает webwxinit; в ответе собственный UserName, по нему себя исключаем из проверки
func (c *Client) Profile(ctx context.Context, s *domain.Session) (domain.Profile, error) {
	u := Serialize(endpoint(s, "webwxinit"), sessionParams(s)...)
	data, err := c.transport.Send(ctx, http.MethodPost, u, initRequest{BaseRequest: s.BaseRequest()}, c.jsonHeaders())
	if err != nil {
		return domain.Profile{}, err
	}

	var resp initResponse
	if err := decode("webwxinit", data, &resp); err != nil {
		return domain.Profile{}, err
	}
	return resp.User, nil
}

// Contacts вызывает webwxgetcontact. Сервис отдаёт список только при наличии cookie сессии.
func (c *Client) Contacts(ctx context.Context, s *domain.Session) ([]domain.Contact, error) {
	u := Serialize(endpoint(s, "webwxgetcontact"), sessionParams(s)...)
	data, err := c.transport.Send(ctx, http.MethodGet, u, nil, c.protectedHeaders(s))
	if err != nil {
		return nil, err
	}

	var resp contactResponse
	if err := decode("webwxgetcontact", data, &resp); err != nil {
		return nil, err
	}
	c.logger.Debug("contacts fetched", "member_count", resp.MemberCount, "received", len(resp.MemberList))
	return resp.MemberList, nil
}
