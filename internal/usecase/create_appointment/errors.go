package create_appointment

import "errors"

var (
	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = errors.New("create_appointment: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в магазине
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден в магазине
	ErrProfessionalNotFound = errors.New("create_appointment: professional not found")

	// ErrProfessionalInactive возвращается, когда специалист отключен
	ErrProfessionalInactive = errors.New("create_appointment: professional is not active")

	// ErrOutOfWindow возвращается, когда дата вне окна бронирования
	ErrOutOfWindow = errors.New("create_appointment: date outside the booking window")

	// ErrSlotNotAvailable возвращается, когда выбранное время не входит в свободные слоты или уже занято
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
