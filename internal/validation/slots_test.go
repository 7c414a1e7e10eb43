package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var slotsDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func slotAt(startHour, startMin, endHour, endMin int) domain.Slot {
	return domain.Slot{
		StartAt:  time.Date(2026, 9, 14, startHour, startMin, 0, 0, time.UTC),
		EndAt:    time.Date(2026, 9, 14, endHour, endMin, 0, 0, time.UTC),
		Capacity: 1,
		Overbook: 0,
	}
}

func TestValidateSlots_Valid(t *testing.T) {
	v := New()

	slots := []domain.Slot{
		slotAt(9, 0, 9, 30),
		slotAt(9, 30, 10, 0),
		slotAt(10, 15, 10, 45),
	}

	errs := v.ValidateSlots(slotsDate, nil, nil, slots)
	assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
}

func TestValidateSlots_StructuralChecks(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		slot      domain.Slot
		wantField string
	}{
		{
			name:      "zero start",
			slot:      domain.Slot{EndAt: time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), Capacity: 1},
			wantField: "slots[0].startAt",
		},
		{
			name:      "start after end",
			slot:      slotAt(11, 0, 10, 0),
			wantField: "slots[0].startAt",
		},
		{
			name:      "start equals end",
			slot:      slotAt(10, 0, 10, 0),
			wantField: "slots[0].startAt",
		},
		{
			name: "outside service date",
			slot: domain.Slot{
				StartAt:  time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
				EndAt:    time.Date(2026, 9, 15, 9, 30, 0, 0, time.UTC),
				Capacity: 1,
			},
			wantField: "slots[0].startAt",
		},
		{
			name: "zero capacity",
			slot: domain.Slot{
				StartAt: time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
				EndAt:   time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC),
			},
			wantField: "slots[0].capacity",
		},
		{
			name: "negative overbook",
			slot: domain.Slot{
				StartAt:  time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
				EndAt:    time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC),
				Capacity: 1,
				Overbook: -1,
			},
			wantField: "slots[0].overbook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateSlots(slotsDate, nil, nil, []domain.Slot{tt.slot})
			require.True(t, errs.HasErrors())

			found := false
			for _, fe := range errs {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected error for %s, got %v", tt.wantField, errs)
		})
	}
}

func TestValidateSlots_WindowContainment(t *testing.T) {
	v := New()

	window := &Window{
		Start: time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC),
	}

	// Слот до открытия окна
	errs := v.ValidateSlots(slotsDate, window, nil, []domain.Slot{slotAt(8, 30, 9, 0)})
	require.Len(t, errs, 1)
	assert.Equal(t, "slots[0].startAt", errs[0].Field)

	// Слот, касающийся границ окна, допустим
	errs = v.ValidateSlots(slotsDate, window, nil, []domain.Slot{slotAt(9, 0, 9, 30), slotAt(17, 30, 18, 0)})
	assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
}

func TestValidateSlots_LunchIntersection(t *testing.T) {
	v := New()

	lunch := &Window{
		Start: time.Date(2026, 9, 14, 13, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC),
	}

	// Слот, заезжающий на обед, отклоняется
	errs := v.ValidateSlots(slotsDate, nil, lunch, []domain.Slot{slotAt(12, 45, 13, 15)})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "lunch")

	// Касание границы обеда пересечением не считается
	errs = v.ValidateSlots(slotsDate, nil, lunch, []domain.Slot{slotAt(12, 30, 13, 0), slotAt(14, 0, 14, 30)})
	assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
}

func TestValidateSlots_OverlapFlagsBothSlots(t *testing.T) {
	v := New()

	slots := []domain.Slot{
		slotAt(9, 0, 9, 45),
		slotAt(9, 30, 10, 0),
		slotAt(10, 0, 10, 30),
	}

	errs := v.ValidateSlots(slotsDate, nil, nil, slots)
	require.Len(t, errs, 2)

	fields := []string{errs[0].Field, errs[1].Field}
	assert.Contains(t, fields, "slots[0].startAt")
	assert.Contains(t, fields, "slots[1].startAt")
}

func TestValidateSlots_BackToBackNotOverlap(t *testing.T) {
	v := New()

	slots := []domain.Slot{
		slotAt(9, 0, 9, 30),
		slotAt(9, 30, 10, 0),
	}

	errs := v.ValidateSlots(slotsDate, nil, nil, slots)
	assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
}

func TestValidateSlots_CollectsAllViolations(t *testing.T) {
	v := New()

	slots := []domain.Slot{
		slotAt(11, 0, 10, 0), // начало после конца
		{ // нулевая вместимость и отрицательный overbook
			StartAt:  time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC),
			EndAt:    time.Date(2026, 9, 14, 12, 30, 0, 0, time.UTC),
			Overbook: -1,
		},
	}

	errs := v.ValidateSlots(slotsDate, nil, nil, slots)
	assert.GreaterOrEqual(t, len(errs), 3)
}

func TestValidateSlots_Deterministic(t *testing.T) {
	v := New()

	slots := []domain.Slot{
		slotAt(9, 0, 9, 45),
		slotAt(9, 30, 10, 0),
	}

	first := v.ValidateSlots(slotsDate, nil, nil, slots)
	second := v.ValidateSlots(slotsDate, nil, nil, slots)
	assert.Equal(t, first, second)
}

func TestWindow_Semantics(t *testing.T) {
	w := Window{
		Start: time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC),
	}

	inside := func(sh, sm, eh, em int) (time.Time, time.Time) {
		return time.Date(2026, 9, 14, sh, sm, 0, 0, time.UTC),
			time.Date(2026, 9, 14, eh, em, 0, 0, time.UTC)
	}

	s, e := inside(9, 0, 18, 0)
	assert.True(t, w.Contains(s, e))

	s, e = inside(8, 59, 10, 0)
	assert.False(t, w.Contains(s, e))

	// Касание границы: [8:00, 9:00) не пересекает [9:00, 18:00)
	s, e = inside(8, 0, 9, 0)
	assert.False(t, w.Intersects(s, e))

	s, e = inside(17, 59, 19, 0)
	assert.True(t, w.Intersects(s, e))
}
