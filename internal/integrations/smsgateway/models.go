package smsgateway

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// sendRequest тело запроса к API SMS-провайдера
type sendRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

// sendResponse ответ API SMS-провайдера
type sendResponse struct {
	Delivered bool   `json:"delivered"`
	MessageID string `json:"message_id"`
}

// SendResult результат попытки отправки
type SendResult struct {
	Delivered   bool
	ProviderRef string
}

// ErrorResponse модель ошибки от провайдера
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
