package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	refdataRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/refdata"
	sessionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions/models"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

// Service сервис для работы с сессиями
// Сессия - единственный владелец своих слотов: все структурные изменения
// слотов проходят через этот сервис и выполняются в транзакции
type Service struct {
	sessionRepo SessionRepository
	bookingRepo BookingRepository
	refdataRepo RefDataRepository
	validator   SlotValidator
	txManager   TransactionManager
	timeSource  TimeProvider
	logger      Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	sessionRepo SessionRepository,
	bookingRepo BookingRepository,
	refdataRepo RefDataRepository,
	validator SlotValidator,
	txManager TransactionManager,
	timeSource TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		refdataRepo: refdataRepo,
		validator:   validator,
		txManager:   txManager,
		timeSource:  timeSource,
		logger:      logger,
	}
}

// Create создает сессию с набором слотов
// Дата сессии не раньше завтрашнего дня; окно должно принадлежать филиалу,
// быть активным и закрепленным за типом страхования сессии. На пару
// (окно, дата) может существовать только одна сессия.
func (s *Service) Create(ctx context.Context, req *models.CreateSessionRequest) (*models.SessionResponse, error) {
	s.logger.Info("Create: creating session for branch=%d, counter=%d, date=%s",
		req.BranchID, req.CounterID, req.ServiceDate.Format(domain.DateFormat))

	if err := s.checkServiceDate(req.ServiceDate); err != nil {
		s.logger.Warn("Create: service date %s rejected", req.ServiceDate.Format(domain.DateFormat))
		return nil, err
	}

	if err := s.checkCounterBinding(ctx, req.BranchID, req.CounterID, req.InsuranceTypeID); err != nil {
		return nil, err
	}

	session, err := req.ToDomainSession()
	if err != nil {
		s.logger.Warn("Create: invalid slot times for counter=%d: %v", req.CounterID, err)
		var errs validation.Errors
		errs.Add("slots", "invalid slot time: %v", err)
		return nil, errs.AsError()
	}

	if errs := s.validator.ValidateSlots(session.ServiceDate, nil, nil, session.Slots); errs.HasErrors() {
		s.logger.Warn("Create: slot validation failed for branch=%d, counter=%d: %v",
			req.BranchID, req.CounterID, errs)
		return nil, errs.AsError()
	}

	var created *domain.Session
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = s.sessionRepo.Create(ctx, session)
		return txErr
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrDuplicateSession) {
			s.logger.Warn("Create: session already exists for counter=%d, date=%s",
				req.CounterID, req.ServiceDate.Format(domain.DateFormat))
			return nil, &ConflictError{
				Reason:    "a session already exists for this counter and date",
				SessionID: 0,
			}
		}
		s.logger.Error("Create: repository error for counter=%d: %v", req.CounterID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created session id=%d with %d slots", created.ID, len(created.Slots))
	return models.FromDomainSession(created), nil
}

// Update редактирует сессию: флаг праздничного дня и полный набор слотов
// Слоты с ID сохраняются, без ID - добавляются, отсутствующие - удаляются.
// Удаление или сжатие слота блокируется активными бронированиями.
func (s *Service) Update(ctx context.Context, sessionID int64, req *models.UpdateSessionRequest) (*models.SessionResponse, error) {
	s.logger.Info("Update: updating session id=%d", sessionID)

	var updated *domain.Session
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		existing, err := s.sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: Update - fetch session: %v", ErrInternal, err)
		}

		desired := make([]domain.Slot, len(req.Slots))
		for i := range req.Slots {
			slot, err := req.Slots[i].ToDomainSlot(existing.ServiceDate)
			if err != nil {
				var errs validation.Errors
				errs.Add(fmt.Sprintf("slots[%d]", i), "invalid slot time: %v", err)
				return errs.AsError()
			}
			desired[i] = slot
		}

		// Сжатие ниже booked проверяется до структурной валидации: клиент
		// получает конфликт по вместимости, а не ошибку формата
		if err := s.checkCapacityShrink(existing, desired); err != nil {
			return err
		}

		if errs := s.validator.ValidateSlots(existing.ServiceDate, nil, nil, desired); errs.HasErrors() {
			return errs.AsError()
		}

		if err := s.applySlotChanges(ctx, existing, desired); err != nil {
			return err
		}

		holidays := existing.Holidays
		if req.Holidays != nil {
			holidays = *req.Holidays
		}
		if err := s.sessionRepo.UpdateMeta(ctx, sessionID, holidays); err != nil {
			return fmt.Errorf("%w: Update - update session meta: %v", ErrInternal, err)
		}

		updated, err = s.sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("%w: Update - reload session: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		var conflictErr *ConflictError
		var capacityErr *CapacityError
		var validationErrs validation.Errors
		switch {
		case errors.Is(err, ErrSessionNotFound):
			s.logger.Warn("Update: session id=%d not found", sessionID)
		case errors.As(err, &conflictErr), errors.As(err, &capacityErr), errors.As(err, &validationErrs):
			s.logger.Warn("Update: session id=%d rejected: %v", sessionID, err)
		default:
			s.logger.Error("Update: session id=%d failed: %v", sessionID, err)
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated session id=%d, slots=%d", sessionID, len(updated.Slots))
	return models.FromDomainSession(updated), nil
}

// Query получает сессии филиала на дату с опциональной фильтрацией
// по типу страхования и окну
func (s *Service) Query(ctx context.Context, req *models.QuerySessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("Query: fetching sessions for branch=%d, date=%s",
		req.BranchID, req.ServiceDate.Format(domain.DateFormat))

	sessions, err := s.sessionRepo.ListByFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("Query: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: Query - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Query: successfully fetched %d sessions for branch=%d", len(sessions), req.BranchID)
	return models.FromDomainSessionList(sessions), nil
}

// GetByID получает сессию по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("GetByID: session id=%d not found", id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("GetByID: repository error for session id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSession(session), nil
}

// Delete массово удаляет сессии филиала по типу страхования на дату
// Вся область удаляется атомарно: одно активное бронирование в любой
// сессии области отклоняет операцию целиком, с указанием блокирующего
// бронирования
func (s *Service) Delete(ctx context.Context, req *models.DeleteSessionsRequest) (*models.DeleteSessionsResponse, error) {
	s.logger.Info("Delete: deleting sessions for branch=%d, insuranceType=%d, date=%s",
		req.BranchID, req.InsuranceTypeID, req.ServiceDate.Format(domain.DateFormat))

	var deleted int64
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		scope, err := s.sessionRepo.ListByScope(ctx, req.BranchID, req.ServiceDate, req.InsuranceTypeID)
		if err != nil {
			return fmt.Errorf("%w: Delete - list sessions in scope: %v", ErrInternal, err)
		}
		if len(scope) == 0 {
			return nil
		}

		ids := make([]int64, len(scope))
		for i, session := range scope {
			ids[i] = session.ID
		}

		// ErrBookingNotFound - штатный ответ: блокирующих бронирований нет
		blocker, err := s.bookingRepo.FirstActiveBySessionIDs(ctx, ids)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("%w: Delete - check active bookings: %v", ErrInternal, err)
		}
		if blocker != nil {
			return &ConflictError{
				Reason:    "scope contains an active booking",
				SessionID: blocker.SessionID,
				SlotID:    blocker.SlotID,
				BookingID: blocker.ID,
			}
		}

		deleted, err = s.sessionRepo.DeleteByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("%w: Delete - delete sessions: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			s.logger.Warn("Delete: scope branch=%d, insuranceType=%d, date=%s blocked by booking=%d",
				req.BranchID, req.InsuranceTypeID, req.ServiceDate.Format(domain.DateFormat), conflictErr.BookingID)
			return nil, err
		}
		s.logger.Error("Delete: failed for branch=%d: %v", req.BranchID, err)
		return nil, err
	}

	s.logger.Info("Delete: successfully deleted %d sessions for branch=%d", deleted, req.BranchID)
	return &models.DeleteSessionsResponse{Deleted: deleted}, nil
}

// Вспомогательные методы

// checkServiceDate проверяет, что дата сессии не раньше завтрашнего дня
func (s *Service) checkServiceDate(serviceDate time.Time) error {
	now := s.timeSource.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, serviceDate.Location())
	if !serviceDate.After(today) {
		return ErrServiceDateTooEarly
	}
	return nil
}

// checkCounterBinding проверяет привязку окна к филиалу и типу страхования
func (s *Service) checkCounterBinding(ctx context.Context, branchID, counterID, insuranceTypeID int64) error {
	if _, err := s.refdataRepo.GetBranch(ctx, branchID); err != nil {
		if errors.Is(err, refdataRepo.ErrBranchNotFound) {
			s.logger.Warn("checkCounterBinding: branch id=%d not found", branchID)
			return ErrBranchNotFound
		}
		return fmt.Errorf("%w: checkCounterBinding - fetch branch: %v", ErrInternal, err)
	}

	counter, err := s.refdataRepo.GetCounter(ctx, counterID)
	if err != nil {
		if errors.Is(err, refdataRepo.ErrCounterNotFound) {
			s.logger.Warn("checkCounterBinding: counter id=%d not found", counterID)
			return ErrCounterNotFound
		}
		return fmt.Errorf("%w: checkCounterBinding - fetch counter: %v", ErrInternal, err)
	}

	if counter.BranchID != branchID {
		s.logger.Warn("checkCounterBinding: counter id=%d belongs to branch=%d, not branch=%d",
			counterID, counter.BranchID, branchID)
		return ErrCounterBranchMismatch
	}
	if !counter.Active {
		s.logger.Warn("checkCounterBinding: counter id=%d is not active", counterID)
		return ErrCounterInactive
	}

	if _, err := s.refdataRepo.GetInsuranceType(ctx, insuranceTypeID); err != nil {
		if errors.Is(err, refdataRepo.ErrInsuranceTypeNotFound) {
			s.logger.Warn("checkCounterBinding: insurance type id=%d not found", insuranceTypeID)
			return ErrInsuranceTypeNotFound
		}
		return fmt.Errorf("%w: checkCounterBinding - fetch insurance type: %v", ErrInternal, err)
	}

	if counter.InsuranceTypeID != insuranceTypeID {
		s.logger.Warn("checkCounterBinding: counter id=%d serves insurance type=%d, not %d",
			counterID, counter.InsuranceTypeID, insuranceTypeID)
		return ErrCounterTypeMismatch
	}

	return nil
}

// checkCapacityShrink отклоняет сжатие сохраненного слота ниже текущего
// числа бронирований. Вместимость и потолок проверяются независимо:
// запас overbook не разрешает опустить capacity ниже booked
func (s *Service) checkCapacityShrink(existing *domain.Session, desired []domain.Slot) error {
	for i := range desired {
		if desired[i].ID == 0 {
			continue
		}
		current := existing.SlotByID(desired[i].ID)
		if current == nil {
			// Чужой ID превращается в ConflictError при применении изменений
			continue
		}
		if desired[i].Capacity < current.Booked || desired[i].Ceiling() < current.Booked {
			return &CapacityError{
				SlotID:      current.ID,
				NewCapacity: desired[i].Capacity,
				NewCeiling:  desired[i].Ceiling(),
				Booked:      current.Booked,
			}
		}
	}
	return nil
}

// applySlotChanges приводит сохраненные слоты сессии к желаемому набору
// Счетчик booked структурными изменениями не трогается. Удаление слота
// с активными бронированиями отклоняется; сжатие вместимости проверено
// раньше, в checkCapacityShrink.
func (s *Service) applySlotChanges(ctx context.Context, existing *domain.Session, desired []domain.Slot) error {
	keep := make(map[int64]*domain.Slot, len(desired))
	var toAdd []domain.Slot
	for i := range desired {
		if desired[i].ID == 0 {
			toAdd = append(toAdd, desired[i])
			continue
		}
		keep[desired[i].ID] = &desired[i]
	}

	// Удаляемые слоты: присутствуют в сессии, отсутствуют в желаемом наборе
	var toDelete []int64
	for i := range existing.Slots {
		current := &existing.Slots[i]
		want, kept := keep[current.ID]
		if !kept {
			if current.Booked > 0 {
				blocker, err := s.bookingRepo.FirstActiveBySlotID(ctx, current.ID)
				if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
					return fmt.Errorf("%w: applySlotChanges - check slot bookings: %v", ErrInternal, err)
				}
				conflict := &ConflictError{
					Reason:    "slot has active bookings and cannot be removed",
					SessionID: existing.ID,
					SlotID:    current.ID,
				}
				if blocker != nil {
					conflict.BookingID = blocker.ID
				}
				return conflict
			}
			toDelete = append(toDelete, current.ID)
			continue
		}

		want.SessionID = existing.ID
		if err := s.sessionRepo.UpdateSlot(ctx, want); err != nil {
			if errors.Is(err, sessionRepo.ErrSlotNotFound) {
				return &ConflictError{
					Reason:    "slot does not belong to the session",
					SessionID: existing.ID,
					SlotID:    want.ID,
				}
			}
			return fmt.Errorf("%w: applySlotChanges - update slot: %v", ErrInternal, err)
		}
	}

	// Слоты с ID, которых нет в сессии - ошибка клиента
	for id := range keep {
		if existing.SlotByID(id) == nil {
			return &ConflictError{
				Reason:    "slot does not belong to the session",
				SessionID: existing.ID,
				SlotID:    id,
			}
		}
	}

	if err := s.sessionRepo.DeleteSlots(ctx, existing.ID, toDelete); err != nil {
		return fmt.Errorf("%w: applySlotChanges - delete slots: %v", ErrInternal, err)
	}
	if len(toAdd) > 0 {
		if err := s.sessionRepo.AddSlots(ctx, existing.ID, toAdd); err != nil {
			return fmt.Errorf("%w: applySlotChanges - add slots: %v", ErrInternal, err)
		}
	}

	return nil
}
