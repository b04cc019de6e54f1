package domain

import "strings"

// Contact описывает запись из списка контактов
type Contact struct {
	UserName   string
	NickName   string
	RemarkName string
	VerifyFlag int
}

// Profile — собственный профиль вошедшего пользователя
type Profile struct {
	UserName string
	NickName string
}

// SystemAccounts — служебные аккаунты сервиса, их никогда не проверяем
var SystemAccounts = map[string]struct{}{
	"newsapp": {}, "fmessage": {}, "filehelper": {}, "weibo": {}, "qqmail": {},
	"tmessage": {}, "qmessage": {}, "qqsync": {}, "floatbottle": {}, "lbsapp": {},
	"shakeapp": {}, "medianote": {}, "qqfriend": {}, "readerapp": {}, "blogapp": {},
	"facebookapp": {}, "masssendapp": {}, "meishiapp": {}, "feedsapp": {}, "voip": {},
	"blogappweixin": {}, "weixin": {}, "brandsessionholder": {}, "weixinreminder": {},
	"wxid_novlwrv3lqwv11": {}, "gh_22b87fa7cb3c": {}, "officialaccounts": {},
	"notification_messages": {}, "wxitil": {}, "userexperience_alarm": {},
}

const groupMarker = "@@"

func (c Contact) IsSystem() bool {
	_, ok := SystemAccounts[c.UserName]
	return ok
}

// IsGroup — идентификаторы групповых чатов содержат "@@"
func (c Contact) IsGroup() bool {
	return strings.Contains(c.UserName, groupMarker)
}

// IsPersonal — у личных аккаунтов VerifyFlag равен нулю, у официальных и сервисных он выставлен
func (c Contact) IsPersonal() bool {
	return c.VerifyFlag == 0
}

func (c Contact) DisplayName() string {
	if c.RemarkName != "" && c.RemarkName != c.NickName {
		return c.NickName + " (" + c.RemarkName + ")"
	}
	if c.NickName == "" {
		return c.UserName
	}
	return c.NickName
}

// FilterProbeable оставляет только личные контакты: без служебных аккаунтов, групп и самого себя.
// Исходный порядок сохраняется.
func FilterProbeable(contacts []Contact, self string) []Contact {
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		if !c.IsPersonal() || c.IsSystem() || c.IsGroup() || c.UserName == self {
			continue
		}
		out = append(out, c)
	}
	return out
}
