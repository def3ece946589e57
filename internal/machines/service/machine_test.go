package service

import (
	"context"
	"testing"
	"time"

	machineserrors "vinbook/internal/machines/errors"
	"vinbook/pkg/config"
	apperrors "vinbook/pkg/errors"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockMachineRepository struct {
	createFunc          func(ctx context.Context, machine *model.Machine) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Machine, error)
	findByProviderFunc  func(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, error)
	countByProviderFunc func(ctx context.Context, provider string) (int64, error)
	countByTypeFunc     func(ctx context.Context, provider string, machineType model.MachineType) (int64, error)
	updateFunc          func(ctx context.Context, id string, machine *model.Machine) (*mongo.UpdateResult, error)
	deleteFunc          func(ctx context.Context, id string) error
}

func (m *mockMachineRepository) Create(ctx context.Context, machine *model.Machine) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, machine)
	}
	machine.ID = "68b2a3c4d5e6f7a8b9c0d1e2"
	return nil
}

func (m *mockMachineRepository) FindByID(ctx context.Context, id string) (*model.Machine, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, machineserrors.ErrNotFound
}

func (m *mockMachineRepository) FindByProvider(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, error) {
	if m.findByProviderFunc != nil {
		return m.findByProviderFunc(ctx, provider, limit, offset)
	}
	return nil, nil
}

func (m *mockMachineRepository) CountByProvider(ctx context.Context, provider string) (int64, error) {
	if m.countByProviderFunc != nil {
		return m.countByProviderFunc(ctx, provider)
	}
	return 0, nil
}

func (m *mockMachineRepository) CountByProviderAndType(ctx context.Context, provider string, machineType model.MachineType) (int64, error) {
	if m.countByTypeFunc != nil {
		return m.countByTypeFunc(ctx, provider, machineType)
	}
	return 0, nil
}

func (m *mockMachineRepository) Update(ctx context.Context, id string, machine *model.Machine) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, machine)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockMachineRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Log:          logger.New(logger.Config{Level: logger.ERROR, Format: "text"}),
	}
}

func providerActor() model.Actor {
	return model.Actor{
		Email:   "ops@acmebottling.co.za",
		Company: "Acme Bottling",
		Role:    model.RoleProvider,
	}
}

func ownedMachine() *model.Machine {
	return &model.Machine{
		ID:                     "68b2a3c4d5e6f7a8b9c0d1e2",
		Name:                   "Line 1",
		Type:                   model.MachineBottling,
		Status:                 model.MachineOperational,
		ServiceProviderCompany: "Acme Bottling",
	}
}

func TestCreate_SetsOwnerAndDefaults(t *testing.T) {
	var persisted *model.Machine
	repo := &mockMachineRepository{
		createFunc: func(ctx context.Context, machine *model.Machine) error {
			persisted = machine
			return nil
		},
	}
	svc := NewMachineService(repo, testConfig())

	machine := &model.Machine{Name: "  Line  2 ", Type: model.MachineLabelling}
	if err := svc.Create(context.Background(), providerActor(), machine); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if persisted.ServiceProviderCompany != "Acme Bottling" {
		t.Errorf("expected owner from actor, got %q", persisted.ServiceProviderCompany)
	}
	if persisted.Name != "Line 2" {
		t.Errorf("expected normalized name, got %q", persisted.Name)
	}
	if persisted.Status != model.MachineOperational {
		t.Errorf("expected default operational status, got %q", persisted.Status)
	}
}

func TestCreate_RejectsInvalidType(t *testing.T) {
	svc := NewMachineService(&mockMachineRepository{}, testConfig())

	machine := &model.Machine{Name: "Line 3", Type: "espresso"}
	err := svc.Create(context.Background(), providerActor(), machine)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected validation code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestCreate_ForbiddenForProducers(t *testing.T) {
	svc := NewMachineService(&mockMachineRepository{}, testConfig())

	producer := model.Actor{Email: "jan@riverside.co.za", Company: "Riverside Wines", Role: model.RoleProducer}
	err := svc.Create(context.Background(), producer, &model.Machine{Name: "Line 1", Type: model.MachineBottling})
	if err == nil {
		t.Fatal("expected forbidden error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestUpdate_OnlyOwnerMayModify(t *testing.T) {
	repo := &mockMachineRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Machine, error) {
			return ownedMachine(), nil
		},
	}
	svc := NewMachineService(repo, testConfig())

	other := model.Actor{Email: "x@other.co.za", Company: "Other Cellars", Role: model.RoleProvider}
	err := svc.Update(context.Background(), other, "68b2a3c4d5e6f7a8b9c0d1e2", &model.MachineUpdate{Status: model.MachineUnderMaintenance})
	if err == nil {
		t.Fatal("expected forbidden error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	var updated *model.Machine
	repo := &mockMachineRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Machine, error) {
			return ownedMachine(), nil
		},
		updateFunc: func(ctx context.Context, id string, machine *model.Machine) (*mongo.UpdateResult, error) {
			updated = machine
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := NewMachineService(repo, testConfig())

	update := &model.MachineUpdate{Status: model.MachineUnderMaintenance}
	if err := svc.Update(context.Background(), providerActor(), "68b2a3c4d5e6f7a8b9c0d1e2", update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != model.MachineUnderMaintenance {
		t.Errorf("expected status under_maintenance, got %q", updated.Status)
	}
	if updated.Name != "Line 1" {
		t.Errorf("name must be untouched, got %q", updated.Name)
	}
	if updated.Type != model.MachineBottling {
		t.Errorf("type must be untouched, got %q", updated.Type)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewMachineService(&mockMachineRepository{}, testConfig())

	err := svc.Delete(context.Background(), providerActor(), "68b2a3c4d5e6f7a8b9c0d1e2")
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected not found code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestCountByProviderAndType_IgnoresStatus(t *testing.T) {
	var askedType model.MachineType
	repo := &mockMachineRepository{
		countByTypeFunc: func(ctx context.Context, provider string, machineType model.MachineType) (int64, error) {
			askedType = machineType
			return 3, nil
		},
	}
	svc := NewMachineService(repo, testConfig())

	count, err := svc.CountByProviderAndType(context.Background(), "Acme Bottling", model.MachineBottling)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
	if askedType != model.MachineBottling {
		t.Errorf("expected bottling type, got %q", askedType)
	}
}
