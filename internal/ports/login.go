package ports

import "context"

// QRDisplay показывает картинку QR-кода пользователю. Best-effort: ошибка только логируется.
type QRDisplay interface {
	Show(ctx context.Context, image []byte) error
	// Close убирает показанный QR-код после успешного входа
	Close() error
}

// LoginObserver получает события конечного автомата входа
type LoginObserver interface {
	QRReady(uuid string)
	Scanned()
	Retrying(code int, err error)
	Confirmed()
}
