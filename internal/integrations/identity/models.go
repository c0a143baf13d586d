package identity

// Principal аутентифицированный владелец токена
// Проверка подлинности (включая Telegram-вход с его hash-подписью)
// целиком выполняется на стороне identity-сервиса
type Principal struct {
	ProfessionalID int64  `json:"professionalId"`
	Email          string `json:"email"`
}

// ErrorResponse модель ошибки от identity-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
