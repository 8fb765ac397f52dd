package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// ErrInvalidBlockDuration is returned when service duration plus buffer is not positive
var ErrInvalidBlockDuration = errors.New("availability: block duration must be positive")

// BlockDuration returns the minutes one booking consumes: the service plus the professional's buffer
func BlockDuration(serviceDurationMinutes, bufferMinutes int) (int, error) {
	block := serviceDurationMinutes + bufferMinutes
	if block <= 0 {
		return 0, fmt.Errorf("%w: service=%d buffer=%d", ErrInvalidBlockDuration, serviceDurationMinutes, bufferMinutes)
	}
	return block, nil
}

// GenerateSlots builds the fixed-step slot grid for every range, in range order.
// Each range starts at its start rounded up to intervalMinutes and advances by the full block,
// so slots never overlap. A slot whose end would pass the range end is not emitted.
func GenerateSlots(ranges []domain.TimeRange, blockDurationMinutes, intervalMinutes int) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)
	if blockDurationMinutes <= 0 {
		return slots
	}

	block := time.Duration(blockDurationMinutes) * time.Minute
	for _, r := range ranges {
		for start := RoundUpToInterval(r.Start, intervalMinutes); ; start = start.Add(block) {
			end := start.Add(block)
			if end.After(r.End) {
				break
			}
			slots = append(slots, domain.TimeSlot{Start: start, End: end})
		}
	}

	return slots
}
