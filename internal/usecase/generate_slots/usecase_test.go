package generate_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestUseCase() *UseCase {
	return NewUseCase(validation.New(), nopLogger{})
}

func baseRequest() *Request {
	return &Request{
		ServiceDate:        time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		WindowStart:        "09:00",
		WindowEnd:          "12:00",
		SlotLengthMinutes:  30,
		BreakLengthMinutes: 0,
		DefaultCapacity:    2,
		DefaultOverbook:    1,
	}
}

func TestExecute_FillsWindow(t *testing.T) {
	uc := newTestUseCase()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 6)
	assert.Equal(t, "2026-09-14", resp.ServiceDate)
	assert.Equal(t, "09:00", resp.Slots[0].Start)
	assert.Equal(t, "09:30", resp.Slots[0].End)
	assert.Equal(t, "11:30", resp.Slots[5].Start)
	assert.Equal(t, "12:00", resp.Slots[5].End)

	for _, s := range resp.Slots {
		assert.True(t, s.Selected)
		assert.Equal(t, 2, s.Capacity)
		assert.Equal(t, 1, s.Overbook)
	}
}

func TestExecute_BreakBetweenSlots(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.WindowEnd = "10:00"
	req.SlotLengthMinutes = 25
	req.BreakLengthMinutes = 5

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "09:00", resp.Slots[0].Start)
	assert.Equal(t, "09:25", resp.Slots[0].End)
	assert.Equal(t, "09:30", resp.Slots[1].Start)
	assert.Equal(t, "09:55", resp.Slots[1].End)
}

func TestExecute_LunchShiftsCursor(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.WindowEnd = "15:00"
	req.SlotLengthMinutes = 60
	req.LunchStart = "12:30"
	req.LunchEnd = "13:30"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Слот 12:00-13:00 заезжает на обед и переносится на его конец
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, "11:00", resp.Slots[2].Start)
	assert.Equal(t, "12:00", resp.Slots[2].End)
	assert.Equal(t, "13:30", resp.Slots[3].Start)
	assert.Equal(t, "14:30", resp.Slots[3].End)
}

func TestExecute_BreaksAndLunchCombined(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.WindowStart = "09:15"
	req.WindowEnd = "16:00"
	req.SlotLengthMinutes = 45
	req.BreakLengthMinutes = 15
	req.LunchStart = "12:00"
	req.LunchEnd = "13:00"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	starts := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.Start
	}
	assert.Equal(t, []string{"09:15", "10:15", "11:15", "13:00", "14:00", "15:00"}, starts)
}

func TestExecute_LunchSwallowsTail(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.WindowEnd = "13:00"
	req.SlotLengthMinutes = 60
	req.LunchStart = "12:00"
	req.LunchEnd = "13:00"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// После переноса на конец обеда места для слота не остается
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "11:00", resp.Slots[2].Start)
}

func TestExecute_DropsPartialTail(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.WindowEnd = "10:45"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Хвост 10:30-10:45 короче слота и не попадает в результат
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "10:00", resp.Slots[2].Start)
	assert.Equal(t, "10:30", resp.Slots[2].End)
}

func TestExecute_Deterministic(t *testing.T) {
	uc := newTestUseCase()

	first, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_WindowTooSmall(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.WindowEnd = "09:15"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InvalidTemplate(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.WindowStart = "18:00"
	req.WindowEnd = "09:00"

	_, err := uc.Execute(context.Background(), req)
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.HasErrors())
}

func TestExecute_MissingServiceDate(t *testing.T) {
	uc := newTestUseCase()

	req := baseRequest()
	req.ServiceDate = time.Time{}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
