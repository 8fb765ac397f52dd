package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/pkg/types"
)

var testDate = time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC) // Tuesday

func buenosAires(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	return loc
}

// at returns the instant of hh:mm on testDate in Buenos Aires
func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	instant, err := CombineDateAndTime(testDate, types.TimeString(hhmm), buenosAires(t))
	require.NoError(t, err)
	return instant
}

func rangeOf(t *testing.T, from, to string) domain.TimeRange {
	t.Helper()
	return domain.TimeRange{Start: at(t, from), End: at(t, to)}
}

func clockTimes(t *testing.T, slots []domain.TimeSlot) []string {
	t.Helper()
	loc := buenosAires(t)
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.In(loc).Format(domain.TimeFormat))
	}
	return out
}

func tsPtr(s string) *types.TimeString {
	ts := types.TimeString(s)
	return &ts
}
