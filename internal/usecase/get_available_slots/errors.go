package get_available_slots

import "errors"

var (
	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = errors.New("shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в магазине
	ErrServiceNotFound = errors.New("service not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден в магазине
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrProfessionalInactive возвращается, когда специалист отключен
	ErrProfessionalInactive = errors.New("professional is not active")

	// ErrOutOfWindow возвращается, когда дата вне окна бронирования
	ErrOutOfWindow = errors.New("date outside the booking window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
