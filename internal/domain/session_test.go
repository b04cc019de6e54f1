package domain

import (
	"net/http"
	"regexp"
	"testing"
)

func TestCookieSetMergeLastWriteWins(t *testing.T) {
	set := NewCookieSet()
	set.Merge([]*http.Cookie{{Name: "wxuin", Value: "1"}, {Name: "wxsid", Value: "a"}})
	set.Merge([]*http.Cookie{{Name: "wxsid", Value: "b"}})

	if v, _ := set.Get("wxsid"); v != "b" {
		t.Errorf("expected wxsid=b, got %q", v)
	}
	if set.Len() != 2 {
		t.Errorf("expected 2 cookies, got %d", set.Len())
	}
}

func TestCookieSetHeader(t *testing.T) {
	set := NewCookieSet()
	set.Merge([]*http.Cookie{
		{Name: "webwxuvid", Value: "uv"},
		{Name: "wxuin", Value: "42"},
		{Name: "unrelated", Value: "x"},
	})

	got := set.Header(SessionCookieNames...)
	if got != "wxuin=42; webwxuvid=uv" {
		t.Fatalf("Header() = %q", got)
	}
	if NewCookieSet().Header(SessionCookieNames...) != "" {
		t.Fatal("expected empty header for empty set")
	}
}

func TestNewDeviceID(t *testing.T) {
	re := regexp.MustCompile(`^e\d{15}$`)
	for i := 0; i < 10; i++ {
		if id := NewDeviceID(); !re.MatchString(id) {
			t.Fatalf("unexpected device id %q", id)
		}
	}
}

func TestBaseRequestFromSession(t *testing.T) {
	s := &Session{Uin: 7, Sid: "sid", Skey: "@crypt", DeviceID: "e123", PassTicket: "pt"}
	br := s.BaseRequest()
	if br.Uin != 7 || br.Sid != "sid" || br.Skey != "@crypt" || br.DeviceID != "e123" {
		t.Fatalf("BaseRequest() = %+v", br)
	}
}
