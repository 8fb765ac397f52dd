package webhooks

import "errors"

var (
	// ErrWebhookNotConfigured возвращается, когда у магазина не указан URL вебхука
	ErrWebhookNotConfigured = errors.New("webhook url is not configured")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
