package ports

import (
	"context"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

// LoginAPI — эндпоинты входа по QR-коду
type LoginAPI interface {
	// FetchUUID запрашивает uuid попытки входа; пустая строка, если сервис не ответил кодом 200
	FetchUUID(ctx context.Context) (string, error)
	// FetchQR скачивает картинку QR-кода для uuid
	FetchQR(ctx context.Context, uuid string) ([]byte, error)
	// PollLogin один раз опрашивает статус входа
	PollLogin(ctx context.Context, uuid string, tip int) (domain.PollResult, error)
	// FetchSession получает skey/wxsid/wxuin/pass_ticket по redirect_uri
	FetchSession(ctx context.Context, redirectURI string) (*domain.Session, error)
}

// DirectoryAPI — профиль и список контактов
type DirectoryAPI interface {
	Profile(ctx context.Context, s *domain.Session) (domain.Profile, error)
	Contacts(ctx context.Context, s *domain.Session) ([]domain.Contact, error)
}

// RoomAPI — операции с групповой комнатой, через которую идёт проверка
type RoomAPI interface {
	// CreateRoom создаёт комнату с участниками userNames
	CreateRoom(ctx context.Context, s *domain.Session, userNames []string) (domain.RoomResult, error)
	// AddMembers добавляет участников в уже созданную комнату
	AddMembers(ctx context.Context, s *domain.Session, room string, userNames []string) (domain.RoomResult, error)
	// RemoveMembers удаляет участников из комнаты
	RemoveMembers(ctx context.Context, s *domain.Session, room string, userNames []string) error
}
