package service

import (
	"context"
	"errors"
	"sync"

	machineserrors "vinbook/internal/machines/errors"
	"vinbook/internal/machines/repository"
	"vinbook/pkg/config"
	apperrors "vinbook/pkg/errors"
	"vinbook/pkg/model"
	"vinbook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type MachineService interface {
	Create(ctx context.Context, actor model.Actor, machine *model.Machine) error
	GetByID(ctx context.Context, id string) (*model.Machine, error)
	ListByProvider(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, update *model.MachineUpdate) error
	Delete(ctx context.Context, actor model.Actor, id string) error
	CountByProviderAndType(ctx context.Context, provider string, machineType model.MachineType) (int64, error)
}

type machineService struct {
	repo     repository.MachineRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewMachineService(repo repository.MachineRepository, cfg *config.Config) MachineService {
	return &machineService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *machineService) Create(ctx context.Context, actor model.Actor, machine *model.Machine) error {
	if actor.Role != model.RoleProvider {
		return apperrors.Forbidden("Only providers can register machines")
	}

	machine.ServiceProviderCompany = actor.Company
	machine.Name = sanitizer.NormalizeName(machine.Name)
	if machine.Status == "" {
		machine.Status = model.MachineOperational
	}

	if err := s.validate.Struct(machine); err != nil {
		s.cfg.Log.Warn("Machine validation failed", "error", err)
		return apperrors.Validation("Machine validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, machine); err != nil {
		s.cfg.Log.Error("Failed to create machine", "error", err)
		return apperrors.Internal("Failed to create machine", err)
	}

	s.cfg.Log.Info("Machine created successfully",
		"id", machine.ID,
		"name", machine.Name,
		"type", machine.Type,
		"provider", machine.ServiceProviderCompany,
	)
	return nil
}

func (s *machineService) GetByID(ctx context.Context, id string) (*model.Machine, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Machine ID cannot be empty")
	}

	machine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, machineserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Machine", id)
		}
		if errors.Is(err, machineserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid machine ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve machine", err)
	}

	return machine, nil
}

func (s *machineService) ListByProvider(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, int64, error) {
	if provider == "" {
		return nil, 0, apperrors.InvalidInput("Provider is required")
	}

	var count int64
	var machines []*model.Machine
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByProvider(ctx, provider)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count machines", "provider", provider, "error", errCount)
			errCount = apperrors.Internal("Failed to count machines", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		machines, errFind = s.repo.FindByProvider(ctx, provider, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list machines", "provider", provider, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve machines", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return machines, count, nil
}

func (s *machineService) Update(ctx context.Context, actor model.Actor, id string, update *model.MachineUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Machine ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role != model.RoleProvider || actor.Company != existing.ServiceProviderCompany {
		return apperrors.Forbidden("Only the owning provider can modify a machine")
	}

	if err := s.validate.Struct(update); err != nil {
		s.cfg.Log.Warn("Machine update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if update.Name != "" {
		merged.Name = sanitizer.NormalizeName(update.Name)
	}
	if update.Type != "" {
		merged.Type = update.Type
	}
	if update.Status != "" {
		merged.Status = update.Status
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		s.cfg.Log.Error("Failed to update machine", "id", id, "error", err)
		return apperrors.Internal("Failed to update machine", err)
	}

	s.cfg.Log.Info("Machine updated successfully", "id", id)
	return nil
}

func (s *machineService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Machine ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role != model.RoleProvider || actor.Company != existing.ServiceProviderCompany {
		return apperrors.Forbidden("Only the owning provider can remove a machine")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, machineserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Machine", id)
		}
		return apperrors.Internal("Failed to delete machine", err)
	}

	s.cfg.Log.Info("Machine deleted successfully", "id", id)
	return nil
}

func (s *machineService) CountByProviderAndType(ctx context.Context, provider string, machineType model.MachineType) (int64, error) {
	return s.repo.CountByProviderAndType(ctx, provider, machineType)
}
