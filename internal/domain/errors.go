package domain

import (
	"errors"
	"fmt"
)

// RetRateLimited — код BaseResponse.Ret, которым сервис отвечает на слишком частые операции с группами
const RetRateLimited = 1205

var (
	ErrRateLimited     = errors.New("webwx: too many requests")
	ErrProtocolTimeout = errors.New("webwx: login was not confirmed in time")
	ErrEmptyUUID       = errors.New("webwx: login uuid was not issued")
)

// TransportError — сетевая ошибка (DNS, разрыв соединения, TLS)
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError — в полуструктурированном ответе не нашлось ожидаемого фрагмента
type ParseError struct {
	Field string
	Body  string
}

func (e *ParseError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("parse %s: not found in %q", e.Field, body)
}

// BusinessError — ненулевой BaseResponse.Ret
type BusinessError struct {
	Op  string
	Ret int
	Msg string
}

func (e *BusinessError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "unknown reason"
	}
	return fmt.Sprintf("%s failed: ret=%d: %s", e.Op, e.Ret, msg)
}

func (e *BusinessError) Is(target error) bool {
	return target == ErrRateLimited && e.Ret == RetRateLimited
}

// RunAbortedError — проверка прервана; Confirmed содержит удаливших из уже сохранённых батчей
type RunAbortedError struct {
	RunID     string
	Confirmed []Contact
	Err       error
}

func (e *RunAbortedError) Error() string {
	return fmt.Sprintf("run %s aborted (%d confirmed before failure): %v", e.RunID, len(e.Confirmed), e.Err)
}

func (e *RunAbortedError) Unwrap() error {
	return e.Err
}
