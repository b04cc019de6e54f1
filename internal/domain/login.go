package domain

// Коды window.code / window.QRLogin.code
const (
	LoginCodeConfirmed = 200
	LoginCodeScanned   = 201

	// LoginCodeUnknown — код не найден в ответе
	LoginCodeUnknown = -1
)

// Значения параметра tip для опроса статуса входа
const (
	TipAlreadyScanned = 0
	TipFirstWait      = 1
)

type LoginState int

const (
	StateUUIDPending LoginState = iota
	StateQRReady
	StateAwaitingScan
	StateScannedUnconfirmed
	StateConfirmed
	StateAborted
)

func (s LoginState) String() string {
	switch s {
	case StateUUIDPending:
		return "UUID_PENDING"
	case StateQRReady:
		return "QR_READY"
	case StateAwaitingScan:
		return "AWAITING_SCAN"
	case StateScannedUnconfirmed:
		return "SCANNED_UNCONFIRMED"
	case StateConfirmed:
		return "CONFIRMED"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

func (s LoginState) Terminal() bool {
	return s == StateConfirmed || s == StateAborted
}

// PollResult — разобранный ответ эндпоинта login
type PollResult struct {
	Code        int
	RedirectURI string
}
