package webwx

import (
	"strconv"
	"strings"
)

// Ответы jslogin/login — фрагменты скрипта вида `window.code = 201;` или `redirect_uri = "...";`.
// Ответ base-info — псевдо-XML, который не всегда валиден, поэтому значения достаются по тегам.

const assignSpace = " \t\r\n"

// assignment находит `key = ` и возвращает хвост после знака равенства
func assignment(body, key string) (string, bool) {
	for from := 0; ; {
		idx := strings.Index(body[from:], key)
		if idx < 0 {
			return "", false
		}
		rest := strings.TrimLeft(body[from+idx+len(key):], assignSpace)
		if strings.HasPrefix(rest, "=") {
			return strings.TrimLeft(rest[1:], assignSpace), true
		}
		from += idx + len(key)
	}
}

// parseCode читает целое значение присваивания
func parseCode(body, key string) (int, bool) {
	rest, ok := assignment(body, key)
	if !ok {
		return 0, false
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	code, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return code, true
}

// parseQuoted читает значение присваивания в двойных кавычках
func parseQuoted(body, key string) (string, bool) {
	rest, ok := assignment(body, key)
	if !ok || !strings.HasPrefix(rest, `"`) {
		return "", false
	}
	end := strings.IndexByte(rest[1:], '"')
	if end <= 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}

// parseTag читает текст между <tag> и </tag>
func parseTag(body, tag string) (string, bool) {
	open := "<" + tag + ">"
	start := strings.Index(body, open)
	if start < 0 {
		return "", false
	}
	start += len(open)
	end := strings.Index(body[start:], "</"+tag+">")
	if end <= 0 {
		return "", false
	}
	return body[start : start+end], true
}
