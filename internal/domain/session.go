package domain

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Session хранит учётные данные, полученные после подтверждения входа.
// После завершения логина поля не меняются, остальные компоненты только читают их.
type Session struct {
	PassTicket string
	Skey       string
	Sid        string
	Uin        int64
	DeviceID   string

	// BaseURL — адрес API, вычисленный из redirect_uri
	BaseURL string

	// Cookies — общий набор cookie транспорта, продолжает пополняться
	Cookies *CookieSet
}

// BaseRequest — блок учётных данных, который сервис ждёт в теле каждого POST.
type BaseRequest struct {
	Uin      int64
	Sid      string
	Skey     string
	DeviceID string
}

func (s *Session) BaseRequest() BaseRequest {
	return BaseRequest{
		Uin:      s.Uin,
		Sid:      s.Sid,
		Skey:     s.Skey,
		DeviceID: s.DeviceID,
	}
}

// SessionCookieNames — cookie, без которых защищённые вызовы возвращают пустой результат.
var SessionCookieNames = []string{
	"wxuin",
	"wxsid",
	"wxloadtime",
	"webwx_data_ticket",
	"webwxuvid",
}

// CookieSet накапливает cookie из всех ответов: последняя запись по имени побеждает.
type CookieSet struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewCookieSet() *CookieSet {
	return &CookieSet{values: make(map[string]string)}
}

func (c *CookieSet) Merge(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ck := range cookies {
		c.values[ck.Name] = ck.Value
	}
}

func (c *CookieSet) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

func (c *CookieSet) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

// Header собирает значение заголовка Cookie из перечисленных имён, пропуская отсутствующие.
func (c *CookieSet) Header(names ...string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if v, ok := c.values[name]; ok {
			parts = append(parts, name+"="+v)
		}
	}
	return strings.Join(parts, "; ")
}

// NewDeviceID генерирует идентификатор устройства в формате веб-клиента: "e" и 15 цифр.
func NewDeviceID() string {
	id := uuid.New()
	var b strings.Builder
	b.WriteByte('e')
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "%d", id[i]%10)
	}
	return b.String()
}
