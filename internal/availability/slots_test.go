package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

func TestBlockDuration(t *testing.T) {
	block, err := BlockDuration(30, 10)
	require.NoError(t, err)
	assert.Equal(t, 40, block)

	block, err = BlockDuration(45, 0)
	require.NoError(t, err)
	assert.Equal(t, 45, block)

	_, err = BlockDuration(0, 0)
	assert.ErrorIs(t, err, ErrInvalidBlockDuration)
}

func TestGenerateSlots_FullDay(t *testing.T) {
	slots := GenerateSlots([]domain.TimeRange{rangeOf(t, "09:00", "18:00")}, 40, 5)

	assert.Equal(t, []string{
		"09:00", "09:40", "10:20", "11:00", "11:40", "12:20", "13:00",
		"13:40", "14:20", "15:00", "15:40", "16:20", "17:00",
	}, clockTimes(t, slots))

	for i, s := range slots {
		assert.Equal(t, 40*time.Minute, s.Duration(), "slot %d", i)
		assert.False(t, s.End.After(at(t, "18:00")))
		if i > 0 {
			assert.False(t, slots[i-1].End.After(s.Start), "slots %d and %d overlap", i-1, i)
		}
	}
}

func TestGenerateSlots_LastSlotEndsExactlyAtRangeEnd(t *testing.T) {
	slots := GenerateSlots([]domain.TimeRange{rangeOf(t, "09:00", "10:00")}, 30, 5)
	assert.Equal(t, []string{"09:00", "09:30"}, clockTimes(t, slots))
}

func TestGenerateSlots_SplitShift(t *testing.T) {
	ranges := []domain.TimeRange{
		rangeOf(t, "09:00", "12:00"),
		rangeOf(t, "15:00", "17:00"),
	}

	slots := GenerateSlots(ranges, 60, 5)

	assert.Equal(t, []string{"09:00", "10:00", "11:00", "15:00", "16:00"}, clockTimes(t, slots))
}

func TestGenerateSlots_RoundsRangeStart(t *testing.T) {
	slots := GenerateSlots([]domain.TimeRange{rangeOf(t, "09:03", "10:30")}, 40, 5)
	assert.Equal(t, []string{"09:05", "09:45"}, clockTimes(t, slots))
}

func TestGenerateSlots_RangeShorterThanBlock(t *testing.T) {
	slots := GenerateSlots([]domain.TimeRange{rangeOf(t, "09:00", "09:30")}, 40, 5)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestGenerateSlots_NoRanges(t *testing.T) {
	assert.Empty(t, GenerateSlots(nil, 40, 5))
}
