package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// filterSlots убирает из кандидатов занятые, заблокированные и уже начавшиеся слоты.
// now должен быть в часовом поясе клиники.
func filterSlots(
	date types.DateString,
	candidates []types.TimeString,
	booked []*domain.BookedSlot,
	locks []*domain.SlotLock,
	now time.Time,
) []types.TimeString {
	taken := make(map[types.TimeString]struct{}, len(booked)+len(locks))
	for _, b := range booked {
		taken[b.Time] = struct{}{}
	}
	for _, l := range locks {
		taken[l.Time] = struct{}{}
	}

	isToday := date == types.NewDateString(now)

	result := make([]types.TimeString, 0, len(candidates))
	for _, slot := range candidates {
		if _, ok := taken[slot]; ok {
			continue
		}
		if isToday {
			start, err := date.At(slot, now.Location())
			if err != nil || !start.After(now) {
				continue
			}
		}
		result = append(result, slot)
	}

	return result
}
