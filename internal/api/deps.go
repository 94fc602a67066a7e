package api

import (
	"context"
	"io"

	"github.com/Spok95/materials-inventory/internal/domain/admins"
	"github.com/Spok95/materials-inventory/internal/domain/inventory"
	"github.com/Spok95/materials-inventory/internal/domain/materials"
)

type Catalog interface {
	Create(ctx context.Context, f materials.Fields) (*materials.Material, error)
	List(ctx context.Context, onlyActive bool) ([]materials.Material, error)
	Update(ctx context.Context, id int64, f materials.Fields) (*materials.Material, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type Ledger interface {
	RecordMovement(ctx context.Context, req inventory.Request) (*inventory.Result, error)
	ListMovements(ctx context.Context) ([]inventory.Entry, error)
	History(ctx context.Context, materialID int64) ([]inventory.Movement, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*admins.Admin, error)
}

type ImageSaver interface {
	Save(ctx context.Context, r io.Reader) (string, error)
}
