package get_schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	refdataRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/refdata"
)

// UseCase use case расписания филиала
// Сводит сессии всех окон филиала на дату в витрину для клиента:
// группы по типам страхования, внутри группы - единая лента слотов
type UseCase struct {
	sessionRepo SessionRepository
	refdataRepo RefDataRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(sessionRepo SessionRepository, refdataRepo RefDataRepository, logger Logger) *UseCase {
	return &UseCase{
		sessionRepo: sessionRepo,
		refdataRepo: refdataRepo,
		logger:      logger,
	}
}

// Execute выполняет сборку расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSchedule: branch=%d, date=%s", req.BranchID, req.ServiceDate.Format(domain.DateFormat))

	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}
	if req.ServiceDate.IsZero() {
		return nil, fmt.Errorf("%w: serviceDate is required", ErrInvalidInput)
	}

	if _, err := uc.refdataRepo.GetBranch(ctx, req.BranchID); err != nil {
		if errors.Is(err, refdataRepo.ErrBranchNotFound) {
			uc.logger.Warn("GetSchedule: branch id=%d not found", req.BranchID)
			return nil, ErrBranchNotFound
		}
		uc.logger.Error("GetSchedule: failed to get branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}

	sessions, err := uc.sessionRepo.ListByFilter(ctx, domain.SessionFilter{
		BranchID:        req.BranchID,
		ServiceDate:     req.ServiceDate,
		InsuranceTypeID: req.InsuranceTypeID,
	})
	if err != nil {
		uc.logger.Error("GetSchedule: failed to list sessions for branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	typeNames, err := uc.insuranceTypeNames(ctx)
	if err != nil {
		return nil, err
	}

	groups := groupByInsuranceType(sessions, typeNames)

	uc.logger.Info("GetSchedule: branch=%d, date=%s, %d groups from %d sessions",
		req.BranchID, req.ServiceDate.Format(domain.DateFormat), len(groups), len(sessions))

	return &Response{
		BranchID:    req.BranchID,
		ServiceDate: req.ServiceDate.Format(domain.DateFormat),
		Groups:      groups,
	}, nil
}

// insuranceTypeNames строит отображение ID -> название типа страхования
func (uc *UseCase) insuranceTypeNames(ctx context.Context) (map[int64]string, error) {
	insuranceTypes, err := uc.refdataRepo.ListInsuranceTypes(ctx)
	if err != nil {
		uc.logger.Error("GetSchedule: failed to list insurance types: %v", err)
		return nil, fmt.Errorf("%w: failed to list insurance types: %v", ErrInternal, err)
	}

	names := make(map[int64]string, len(insuranceTypes))
	for _, it := range insuranceTypes {
		names[it.ID] = it.Name
	}
	return names, nil
}

// groupByInsuranceType сводит сессии в группы по типу страхования
// Внутри группы слоты всех окон упорядочены по началу, при равенстве -
// по окну: лента читается как единая очередь филиала
func groupByInsuranceType(sessions []*domain.Session, typeNames map[int64]string) []InsuranceTypeGroup {
	grouped := make(map[int64][]ScheduleSlot)
	for _, session := range sessions {
		for i := range session.Slots {
			grouped[session.InsuranceTypeID] = append(
				grouped[session.InsuranceTypeID],
				fromDomainSlot(session, &session.Slots[i]),
			)
		}
	}

	typeIDs := make([]int64, 0, len(grouped))
	for typeID := range grouped {
		typeIDs = append(typeIDs, typeID)
	}
	sort.Slice(typeIDs, func(i, j int) bool { return typeIDs[i] < typeIDs[j] })

	groups := make([]InsuranceTypeGroup, 0, len(typeIDs))
	for _, typeID := range typeIDs {
		slots := grouped[typeID]
		sort.Slice(slots, func(i, j int) bool {
			if slots[i].StartAt != slots[j].StartAt {
				return slots[i].StartAt < slots[j].StartAt
			}
			return slots[i].CounterID < slots[j].CounterID
		})

		groups = append(groups, InsuranceTypeGroup{
			InsuranceTypeID:   typeID,
			InsuranceTypeName: typeNames[typeID],
			Slots:             slots,
		})
	}

	return groups
}
