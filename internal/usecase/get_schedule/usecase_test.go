package get_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	refdataRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/refdata"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeSessionRepo struct {
	sessions   []*domain.Session
	lastFilter domain.SessionFilter
}

func (r *fakeSessionRepo) ListByFilter(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	r.lastFilter = filter
	return r.sessions, nil
}

type fakeRefDataRepo struct {
	branchExists bool
}

func (r *fakeRefDataRepo) GetBranch(ctx context.Context, id int64) (*domain.Branch, error) {
	if !r.branchExists {
		return nil, refdataRepo.ErrBranchNotFound
	}
	return &domain.Branch{ID: id, Name: "Central"}, nil
}

func (r *fakeRefDataRepo) ListInsuranceTypes(ctx context.Context) ([]*domain.InsuranceType, error) {
	return []*domain.InsuranceType{
		{ID: 100, Name: "Auto"},
		{ID: 200, Name: "Property"},
	}, nil
}

var scheduleDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func scheduleSession(id, counterID, insuranceTypeID int64, slots ...domain.Slot) *domain.Session {
	return &domain.Session{
		ID:              id,
		BranchID:        1,
		CounterID:       counterID,
		InsuranceTypeID: insuranceTypeID,
		ServiceDate:     scheduleDate,
		Status:          domain.SessionScheduled,
		Slots:           slots,
	}
}

func scheduleSlot(id int64, startHour, startMin int, booked int) domain.Slot {
	return domain.Slot{
		ID:       id,
		StartAt:  time.Date(2026, 9, 14, startHour, startMin, 0, 0, time.UTC),
		EndAt:    time.Date(2026, 9, 14, startHour, startMin+30, 0, 0, time.UTC),
		Capacity: 2,
		Booked:   booked,
		Overbook: 0,
	}
}

func scheduleRequest() *Request {
	return &Request{BranchID: 1, ServiceDate: scheduleDate}
}

func TestExecute_GroupsByInsuranceType(t *testing.T) {
	sessions := &fakeSessionRepo{sessions: []*domain.Session{
		scheduleSession(1, 10, 200, scheduleSlot(1, 9, 0, 0)),
		scheduleSession(2, 11, 100, scheduleSlot(2, 9, 0, 0), scheduleSlot(3, 10, 0, 0)),
	}}
	uc := NewUseCase(sessions, &fakeRefDataRepo{branchExists: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), scheduleRequest())
	require.NoError(t, err)

	assert.Equal(t, "2026-09-14", resp.ServiceDate)
	require.Len(t, resp.Groups, 2)

	// Группы упорядочены по ID типа страхования
	assert.Equal(t, int64(100), resp.Groups[0].InsuranceTypeID)
	assert.Equal(t, "Auto", resp.Groups[0].InsuranceTypeName)
	assert.Len(t, resp.Groups[0].Slots, 2)

	assert.Equal(t, int64(200), resp.Groups[1].InsuranceTypeID)
	assert.Equal(t, "Property", resp.Groups[1].InsuranceTypeName)
	assert.Len(t, resp.Groups[1].Slots, 1)
}

func TestExecute_MergesCountersIntoSingleFeed(t *testing.T) {
	// Два окна одного типа: слоты сведены в одну ленту по времени,
	// при равенстве начала - по окну
	sessions := &fakeSessionRepo{sessions: []*domain.Session{
		scheduleSession(1, 11, 100, scheduleSlot(1, 10, 0, 0), scheduleSlot(2, 9, 0, 0)),
		scheduleSession(2, 10, 100, scheduleSlot(3, 9, 30, 0), scheduleSlot(4, 9, 0, 0)),
	}}
	uc := NewUseCase(sessions, &fakeRefDataRepo{branchExists: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), scheduleRequest())
	require.NoError(t, err)

	require.Len(t, resp.Groups, 1)
	slots := resp.Groups[0].Slots
	require.Len(t, slots, 4)

	assert.Equal(t, []int64{4, 2, 3, 1}, []int64{slots[0].SlotID, slots[1].SlotID, slots[2].SlotID, slots[3].SlotID})
	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, int64(10), slots[0].CounterID)
	assert.Equal(t, int64(11), slots[1].CounterID)
}

func TestExecute_HolidaySessionUnavailable(t *testing.T) {
	holiday := scheduleSession(1, 10, 100, scheduleSlot(1, 9, 0, 0))
	holiday.Holidays = true
	sessions := &fakeSessionRepo{sessions: []*domain.Session{holiday}}
	uc := NewUseCase(sessions, &fakeRefDataRepo{branchExists: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), scheduleRequest())
	require.NoError(t, err)

	slot := resp.Groups[0].Slots[0]
	assert.False(t, slot.Available)
	assert.Equal(t, 2, slot.AvailableSpots) // места есть, но сессия выходная
}

func TestExecute_FullSlotUnavailable(t *testing.T) {
	sessions := &fakeSessionRepo{sessions: []*domain.Session{
		scheduleSession(1, 10, 100, scheduleSlot(1, 9, 0, 2), scheduleSlot(2, 10, 0, 1)),
	}}
	uc := NewUseCase(sessions, &fakeRefDataRepo{branchExists: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), scheduleRequest())
	require.NoError(t, err)

	slots := resp.Groups[0].Slots
	assert.False(t, slots[0].Available)
	assert.Equal(t, 0, slots[0].AvailableSpots)
	assert.Equal(t, 100.0, slots[0].OccupancyRate)

	assert.True(t, slots[1].Available)
	assert.Equal(t, 1, slots[1].AvailableSpots)
	assert.Equal(t, 50.0, slots[1].OccupancyRate)
}

func TestExecute_ForwardsInsuranceTypeFilter(t *testing.T) {
	sessions := &fakeSessionRepo{}
	uc := NewUseCase(sessions, &fakeRefDataRepo{branchExists: true}, nopLogger{})

	typeID := int64(100)
	req := scheduleRequest()
	req.InsuranceTypeID = &typeID

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, sessions.lastFilter.InsuranceTypeID)
	assert.Equal(t, typeID, *sessions.lastFilter.InsuranceTypeID)
}

func TestExecute_EmptySchedule(t *testing.T) {
	uc := NewUseCase(&fakeSessionRepo{}, &fakeRefDataRepo{branchExists: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), scheduleRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Groups)
}

func TestExecute_BranchNotFound(t *testing.T) {
	uc := NewUseCase(&fakeSessionRepo{}, &fakeRefDataRepo{}, nopLogger{})

	_, err := uc.Execute(context.Background(), scheduleRequest())
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestExecute_InvalidRequest(t *testing.T) {
	uc := NewUseCase(&fakeSessionRepo{}, &fakeRefDataRepo{branchExists: true}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BranchID: 0, ServiceDate: scheduleDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BranchID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
