package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stakeVault/internal/model"
)

// Store provides Postgres persistence for reporting. The file state store
// remains authoritative; this sink mirrors the pool row and operation history
// for querying.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SavePool upserts the singleton pool accounting row.
func (s *Store) SavePool(ctx context.Context, snap model.PoolSnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vault_pool (
			id, claimed_shares, accrued_fee, balance, lots_provisioned, updated_at
		) VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			claimed_shares = EXCLUDED.claimed_shares,
			accrued_fee = EXCLUDED.accrued_fee,
			balance = EXCLUDED.balance,
			lots_provisioned = EXCLUDED.lots_provisioned,
			updated_at = now()
	`,
		snap.ClaimedShares,
		snap.AccruedFee,
		snap.Balance,
		int64(snap.LotsProvisioned),
	)
	return err
}

// LoadPool returns the pool accounting row if one has been saved.
func (s *Store) LoadPool(ctx context.Context) (model.PoolSnapshot, bool, error) {
	var snap model.PoolSnapshot
	var lots int64
	row := s.pool.QueryRow(ctx, `
		SELECT claimed_shares, accrued_fee, balance, lots_provisioned
		FROM vault_pool WHERE id = 1
	`)
	if err := row.Scan(&snap.ClaimedShares, &snap.AccruedFee, &snap.Balance, &lots); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PoolSnapshot{}, false, nil
		}
		return model.PoolSnapshot{}, false, err
	}
	snap.LotsProvisioned = uint64(lots)
	return snap, true, nil
}

// AppendOperations inserts committed operation records.
func (s *Store) AppendOperations(ctx context.Context, ops []model.OperationRecord) error {
	if len(ops) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, op := range ops {
		batch.Queue(`
			INSERT INTO vault_operations (
				kind, caller, gross, net, fee,
				claimed_shares, accrued_fee, balance, lots_provisioned, ts, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now())
		`,
			op.Kind,
			op.Caller,
			op.Gross,
			op.Net,
			op.Fee,
			op.ClaimedShares,
			op.AccruedFee,
			op.Balance,
			int64(op.LotsProvisioned),
			op.Timestamp,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range ops {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
