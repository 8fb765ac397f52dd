package create_appointment

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// validateRequest валидирует входные данные запроса и нормализует строки
func validateRequest(req *Request) error {
	if req.Source != SourceWidget && req.Source != SourceExternal {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}

	if req.ShopID == uuid.Nil {
		return fmt.Errorf("%w: shop_id is required", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: service_id is required", ErrInvalidInput)
	}

	if req.ProfessionalID == uuid.Nil {
		return fmt.Errorf("%w: professional_id is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", ErrInvalidInput)
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customer_name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer_name is too long", ErrInvalidInput)
	}

	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if req.CustomerPhone == "" || phoneDigits(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer_phone is required", ErrInvalidInput)
	}
	if len(req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customer_phone is too long", ErrInvalidInput)
	}

	if req.CustomerEmail != nil && strings.TrimSpace(*req.CustomerEmail) == "" {
		req.CustomerEmail = nil
	}
	if req.CustomerEmail == nil && req.Source == SourceExternal {
		return fmt.Errorf("%w: customer_email is required", ErrInvalidInput)
	}
	if req.CustomerEmail != nil {
		email := strings.TrimSpace(*req.CustomerEmail)
		if len(email) > domain.MaxCustomerEmailLength {
			return fmt.Errorf("%w: customer_email is too long", ErrInvalidInput)
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: invalid customer_email", ErrInvalidInput)
		}
		req.CustomerEmail = &email
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return nil
}

// placeholderEmail строит e-mail из цифр телефона для записей из виджета без e-mail
func placeholderEmail(phone string) string {
	return phoneDigits(phone) + "@" + domain.PlaceholderEmailDomain
}

func phoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
