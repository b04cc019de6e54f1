package webwx

import (
	"context"
	"net/http"
	"strings"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

type roomMemberName struct {
	UserName string
}

type createRoomRequest struct {
	BaseRequest domain.BaseRequest
	MemberCount int
	MemberList  []roomMemberName
	Topic       string
}

type updateRoomRequest struct {
	BaseRequest   domain.BaseRequest
	ChatRoomName  string
	AddMemberList string `json:",omitempty"`
	DelMemberList string `json:",omitempty"`
}

type roomResponse struct {
	envelope
	ChatRoomName string
	MemberList   []domain.RoomMember
}

func (r roomResponse) result() domain.RoomResult {
	return domain.RoomResult{RoomName: r.ChatRoomName, Members: r.MemberList}
}

// CreateRoom создаёт комнату. Участники, которые не смогли войти, приходят с MemberStatus 4.
func (c *Client) CreateRoom(ctx context.Context, s *domain.Session, userNames []string) (domain.RoomResult, error) {
	members := make([]roomMemberName, len(userNames))
	for i, name := range userNames {
		members[i] = roomMemberName{UserName: name}
	}
	req := createRoomRequest{
		BaseRequest: s.BaseRequest(),
		MemberCount: len(members),
		MemberList:  members,
	}

	u := Serialize(endpoint(s, "webwxcreatechatroom"), Param{"pass_ticket", s.PassTicket})
	data, err := c.transport.Send(ctx, http.MethodPost, u, req, c.protectedHeaders(s))
	if err != nil {
		return domain.RoomResult{}, err
	}

	var resp roomResponse
	if err := decode("webwxcreatechatroom", data, &resp); err != nil {
		return domain.RoomResult{}, err
	}
	if resp.ChatRoomName == "" {
		return domain.RoomResult{}, &domain.ParseError{Field: "ChatRoomName", Body: string(data)}
	}
	return resp.result(), nil
}

func (c *Client) AddMembers(ctx context.Context, s *domain.Session, room string, userNames []string) (domain.RoomResult, error) {
	req := updateRoomRequest{
		BaseRequest:   s.BaseRequest(),
		ChatRoomName:  room,
		AddMemberList: strings.Join(userNames, ","),
	}
	resp, err := c.updateRoom(ctx, s, "addmember", req)
	if err != nil {
		return domain.RoomResult{}, err
	}
	res := resp.result()
	if res.RoomName == "" {
		res.RoomName = room
	}
	return res, nil
}

func (c *Client) RemoveMembers(ctx context.Context, s *domain.Session, room string, userNames []string) error {
	req := updateRoomRequest{
		BaseRequest:   s.BaseRequest(),
		ChatRoomName:  room,
		DelMemberList: strings.Join(userNames, ","),
	}
	_, err := c.updateRoom(ctx, s, "delmember", req)
	return err
}

func (c *Client) updateRoom(ctx context.Context, s *domain.Session, fun string, req updateRoomRequest) (*roomResponse, error) {
	u := Serialize(endpoint(s, "webwxupdatechatroom"),
		Param{"pass_ticket", s.PassTicket},
		Param{"fun", fun},
	)
	data, err := c.transport.Send(ctx, http.MethodPost, u, req, c.protectedHeaders(s))
	if err != nil {
		return nil, err
	}

	var resp roomResponse
	if err := decode("webwxupdatechatroom "+fun, data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
