package webhook

import "errors"

var (
	// ErrMarshalPayload возвращается, когда payload не сериализуется в JSON
	ErrMarshalPayload = errors.New("webhook client: failed to marshal payload")

	// ErrUnexpectedStatus возвращается, когда получатель ответил не 2xx
	ErrUnexpectedStatus = errors.New("webhook client: unexpected status code")
)
