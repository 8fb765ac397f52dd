package get_available_slots

import (
	"errors"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TurneroService/internal/usecase/get_available_slots"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	errMissingParams = errors.New("missing required parameters")
	errInvalidDate   = errors.New("invalid date format")
	errInvalidID     = errors.New("invalid identifier")
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	Count          int      `json:"count"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	times := resp.Times()
	return &AvailableSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		AvailableSlots: times,
		Count:          len(times),
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(q url.Values) (*getAvailableSlots.Request, error) {
	dateStr := q.Get("date")
	serviceStr := q.Get("serviceId")
	professionalStr := q.Get("professionalId")
	shopStr := q.Get("shopId")

	if dateStr == "" || serviceStr == "" || professionalStr == "" || shopStr == "" {
		return nil, errMissingParams
	}

	if !datePattern.MatchString(dateStr) {
		return nil, errInvalidDate
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, errInvalidDate
	}

	shopID, err := uuid.Parse(shopStr)
	if err != nil {
		return nil, errInvalidID
	}
	serviceID, err := uuid.Parse(serviceStr)
	if err != nil {
		return nil, errInvalidID
	}
	professionalID, err := uuid.Parse(professionalStr)
	if err != nil {
		return nil, errInvalidID
	}

	return &getAvailableSlots.Request{
		ShopID:         shopID,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		Date:           date,
	}, nil
}
