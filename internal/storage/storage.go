package storage

import (
	"context"

	"stakeVault/internal/model"
)

// Journal is an append-only sink for committed operations.
type Journal interface {
	Append(ops []model.OperationRecord) error
}

// StateStore persists the full vault snapshot between CLI invocations.
type StateStore interface {
	Load(ctx context.Context) (model.VaultSnapshot, bool, error)
	Save(ctx context.Context, snap model.VaultSnapshot) error
}
