package api

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Spok95/materials-inventory/internal/domain/admins"
	"github.com/Spok95/materials-inventory/internal/domain/inventory"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
)

type catalogMock struct{ mock.Mock }

func (m *catalogMock) Create(ctx context.Context, f materials.Fields) (*materials.Material, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).(*materials.Material)
	return out, args.Error(1)
}

func (m *catalogMock) List(ctx context.Context, onlyActive bool) ([]materials.Material, error) {
	args := m.Called(ctx, onlyActive)
	out, _ := args.Get(0).([]materials.Material)
	return out, args.Error(1)
}

func (m *catalogMock) Update(ctx context.Context, id int64, f materials.Fields) (*materials.Material, error) {
	args := m.Called(ctx, id, f)
	out, _ := args.Get(0).(*materials.Material)
	return out, args.Error(1)
}

func (m *catalogMock) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *catalogMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type ledgerMock struct{ mock.Mock }

func (m *ledgerMock) RecordMovement(ctx context.Context, req inventory.Request) (*inventory.Result, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).(*inventory.Result)
	return out, args.Error(1)
}

func (m *ledgerMock) ListMovements(ctx context.Context) ([]inventory.Entry, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]inventory.Entry)
	return out, args.Error(1)
}

func (m *ledgerMock) History(ctx context.Context, materialID int64) ([]inventory.Movement, error) {
	args := m.Called(ctx, materialID)
	out, _ := args.Get(0).([]inventory.Movement)
	return out, args.Error(1)
}

type authMock struct{ mock.Mock }

func (m *authMock) Authenticate(ctx context.Context, username, password string) (*admins.Admin, error) {
	args := m.Called(ctx, username, password)
	out, _ := args.Get(0).(*admins.Admin)
	return out, args.Error(1)
}

type imagesMock struct{ mock.Mock }

func (m *imagesMock) Save(ctx context.Context, r io.Reader) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}
