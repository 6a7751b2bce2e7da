package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Диалог /pay: заселение, сумма, канал оплаты
	StatePayBookingID UserState = "pay_booking_id"
	StatePayAmount    UserState = "pay_amount"
	StatePayChannel   UserState = "pay_channel"
)

// Ключи временных данных диалога
const (
	KeyBookingID = "booking_id"
	KeyAmount    = "amount"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any
}
