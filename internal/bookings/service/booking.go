package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "vinbook/internal/bookings/errors"
	"vinbook/internal/bookings/repository"
	"vinbook/internal/bookings/validator"
	"vinbook/internal/notifications"
	"vinbook/pkg/config"
	apperrors "vinbook/pkg/errors"
	"vinbook/pkg/model"
	"vinbook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// MachineRequiredMessage is the exact wording returned when a provider tries
// to confirm a machine-backed booking with no machine allocated. Client
// applications match on this string.
const MachineRequiredMessage = "Please allocate a machine before confirming the booking."

// CapacityExhaustedMessage is returned when confirm-time capacity enforcement
// is enabled and no machine capacity remains on the booking day.
const CapacityExhaustedMessage = "No machine capacity remains on this day."

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, booking *model.Booking) error
	CreateManual(ctx context.Context, actor model.Actor, booking *model.Booking) error
	Transition(ctx context.Context, actor model.Actor, id string, next model.BookingStatus, machineID string) error
	Edit(ctx context.Context, actor model.Actor, id string, edit *model.BookingEdit) error
	Delete(ctx context.Context, actor model.Actor, id string) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, provider string, producer string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

// MachineCounter is the narrow slice of the machine registry the booking
// lifecycle needs for confirm-time capacity checks.
type MachineCounter interface {
	CountByProviderAndType(ctx context.Context, provider string, machineType model.MachineType) (int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.CapacityLockRepository
	machines  MachineCounter
	validator *validator.BookingValidator
	notifier  notifications.Notifier
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.CapacityLockRepository,
	machines MachineCounter,
	bookingValidator *validator.BookingValidator,
	notifier notifications.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		machines:  machines,
		validator: bookingValidator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Create is the producer entry path. The booking identity comes from the
// actor, the status is forced to pending, and every work order must be
// complete before anything is persisted.
func (s *bookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	booking.ProducerCompany = actor.Company
	booking.ProducerEmail = actor.Email
	booking.Status = model.StatusPending

	s.sanitize(booking)
	if err := s.validate(booking, validator.EntryModeProducer); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"producer", booking.ProducerEmail,
		"provider", booking.ProviderCompany,
		"date", booking.Day(),
		"service", booking.Service(),
	)

	s.notifier.BookingRequested(ctx, booking)
	return nil
}

// CreateManual is the provider entry path for bookings captured over the
// phone or in person. Validation is lenient, the producer email is a
// sentinel, and the booking lands directly as confirmed.
func (s *bookingService) CreateManual(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	if actor.Role != model.RoleProvider {
		return apperrors.Forbidden("Only providers can enter manual bookings")
	}

	booking.ProviderCompany = actor.Company
	booking.ProducerEmail = model.ManualProducerEmail
	booking.Status = model.StatusConfirmed

	s.sanitize(booking)
	if err := s.validate(booking, validator.EntryModeManual); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create manual booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Manual booking created successfully",
		"id", booking.ID,
		"client", booking.ProducerCompany,
		"provider", booking.ProviderCompany,
		"date", booking.Day(),
	)
	return nil
}

// Transition moves a pending booking to confirmed or rejected. Confirming a
// machine-backed booking requires a machine, supplied on the call or already
// on the record.
func (s *bookingService) Transition(ctx context.Context, actor model.Actor, id string, next model.BookingStatus, machineID string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if next != model.StatusConfirmed && next != model.StatusRejected {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid target status %q; must be confirmed or rejected", next))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role != model.RoleProvider || actor.Company != booking.ProviderCompany {
		return apperrors.Forbidden("Only the booked provider can change booking status")
	}

	if !booking.Status.CanTransitionTo(next) {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot transition booking from %s to %s; only pending bookings can change status", booking.Status, next,
		))
	}

	previous := booking.Status
	machineType, machineBacked := booking.Service().MachineType()

	if next == model.StatusConfirmed && machineBacked {
		if machineID != "" {
			booking.AssignedMachineID = machineID
		}
		if booking.AssignedMachineID == "" {
			return apperrors.Validation(MachineRequiredMessage, nil)
		}
	}

	booking.Status = next

	if next == model.StatusConfirmed && machineBacked && s.cfg.EnforceCapacityOnConfirm {
		return s.confirmWithCapacityCheck(ctx, id, booking, machineType, previous)
	}

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to transition booking", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.cfg.Log.Info("Booking status changed",
		"id", id,
		"from", previous,
		"to", next,
	)

	s.notifier.BookingStatusChanged(ctx, booking, previous)
	return nil
}

// confirmWithCapacityCheck re-checks machine capacity inside a transaction
// guarded by an advisory lock, so two concurrent confirms cannot both see a
// free machine on the same day.
func (s *bookingService) confirmWithCapacityCheck(ctx context.Context, id string, booking *model.Booking, machineType model.MachineType, previous model.BookingStatus) error {
	lockID, err := s.acquireCapacityLock(ctx, booking.ProviderCompany, booking.Service(), booking.Day())
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release capacity lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		committed, err := s.repo.CountConfirmedOnDay(sessCtx, booking.ProviderCompany, booking.Service(), booking.Date)
		if err != nil {
			return apperrors.Internal("Failed to count confirmed bookings", err)
		}
		total, err := s.machines.CountByProviderAndType(sessCtx, booking.ProviderCompany, machineType)
		if err != nil {
			return apperrors.Internal("Failed to count machines", err)
		}
		if committed >= total {
			return apperrors.Conflict(CapacityExhaustedMessage)
		}
		if _, err := s.repo.Update(sessCtx, id, booking); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm booking with capacity check", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking confirmed with capacity check",
		"id", id,
		"provider", booking.ProviderCompany,
		"date", booking.Day(),
	)

	s.notifier.BookingStatusChanged(ctx, booking, previous)
	return nil
}

// Edit replaces the date, work orders and machine assignment in place.
// Status never changes here; that is what Transition is for.
func (s *bookingService) Edit(ctx context.Context, actor model.Actor, id string, edit *model.BookingEdit) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isBookingParty(actor, existing) {
		return apperrors.Forbidden("Only the booking's producer or provider can edit it")
	}

	if err := s.validator.ValidateEdit(edit); err != nil {
		s.cfg.Log.Warn("Booking edit validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid edit input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingEdit(existing, edit)
	s.sanitize(merged)

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to edit booking", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking edited successfully", "id", id)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isBookingParty(actor, existing) {
		return apperrors.Forbidden("Only the booking's producer or provider can delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Search(ctx context.Context, provider string, producer string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if provider == "" && producer == "" {
		return nil, 0, apperrors.InvalidInput("At least one of provider or producer is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountBySearch(ctx, provider, producer, from, to)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by search",
				"provider", provider,
				"producer", producer,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindBySearch(ctx, provider, producer, from, to, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"provider", provider,
				"producer", producer,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Booking search completed",
		"provider", provider,
		"producer", producer,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

// --- Helpers ---

// isBookingParty reports whether the actor is one of the booking's two
// parties: the producer who requested it or the provider who serves it.
// Stored emails are normalized, so the actor's email is normalized before
// comparison.
func isBookingParty(actor model.Actor, booking *model.Booking) bool {
	switch actor.Role {
	case model.RoleProducer:
		return sanitizer.NormalizeEmail(actor.Email) == booking.ProducerEmail
	case model.RoleProvider:
		return actor.Company == booking.ProviderCompany
	}
	return false
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.ProducerCompany = sanitizer.NormalizeCompany(b.ProducerCompany)
	b.ProviderCompany = sanitizer.NormalizeCompany(b.ProviderCompany)
	b.ProducerEmail = sanitizer.NormalizeEmail(b.ProducerEmail)

	for i := range b.WorkOrders {
		w := &b.WorkOrders[i]
		w.ContactPerson = sanitizer.NormalizeName(w.ContactPerson)
		w.Location = sanitizer.NormalizeName(w.Location)
		w.Cultivar = sanitizer.NormalizeName(w.Cultivar)
		w.BottleType = sanitizer.NormalizeLabel(w.BottleType)
		w.ClosureType = sanitizer.NormalizeLabel(w.ClosureType)
		w.FiltrationType = sanitizer.NormalizeLabel(w.FiltrationType)
		// Keep the raw number when it cannot be parsed; completeness checks
		// must see what the user typed, not an empty string.
		if phone := sanitizer.NormalizePhone(w.ContactNumber); phone != "" {
			w.ContactNumber = phone
		}
	}
}

func (s *bookingService) mergeBookingEdit(existing *model.Booking, edit *model.BookingEdit) *model.Booking {
	merged := *existing

	if edit.Date != nil {
		merged.Date = *edit.Date
	}
	if edit.WorkOrders != nil {
		merged.WorkOrders = edit.WorkOrders
	}
	if edit.AssignedMachineID != nil {
		merged.AssignedMachineID = *edit.AssignedMachineID
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking, mode validator.EntryMode) error {
	if err := s.validator.ValidateCreate(booking, mode); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		message := "Booking validation failed"
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			message = validationErrs[0].Message
		}
		return apperrors.Validation(message, map[string]any{"error": err.Error()})
	}
	return nil
}

// acquireCapacityLock creates an advisory lock for one provider/service/day.
// A held lock whose TTL has passed is reclaimed (a crashed confirm never got
// to release it); a live lock means another confirm is in flight.
func (s *bookingService) acquireCapacityLock(ctx context.Context, provider string, service model.ServiceType, day string) (string, error) {
	lockID := fmt.Sprintf("capacity_lock_%s_%s_%s", provider, service, day)

	for attempt := 0; attempt < 2; attempt++ {
		lock := &model.CapacityLock{
			ID:        lockID,
			ExpiresAt: time.Now().Add(s.cfg.CapacityLockTTL),
		}

		_, err := s.lockRepo.Create(ctx, lock)
		if err == nil {
			return lockID, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Internal("Failed to acquire capacity lock", err)
		}

		reclaimed, expErr := s.lockRepo.DeleteExpired(ctx, lockID, time.Now())
		if expErr != nil {
			return "", apperrors.Internal("Failed to acquire capacity lock", expErr)
		}
		if !reclaimed {
			return "", apperrors.Conflict("Another confirmation for this day is in progress. Please try again.")
		}

		s.cfg.Log.Warn("Reclaimed expired capacity lock", "lock_id", lockID)
	}

	return "", apperrors.Conflict("Another confirmation for this day is in progress. Please try again.")
}
