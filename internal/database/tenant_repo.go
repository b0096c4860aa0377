package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
)

type tenantRepo struct {
	db dbConn
}

func newTenantRepo(db dbConn) contract.TenantRepo {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Upsert(ctx context.Context, tenant *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, channel_ref, store_ref, timezone, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			channel_ref = excluded.channel_ref,
			store_ref = excluded.store_ref,
			timezone = excluded.timezone,
			is_active = excluded.is_active,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		tenant.ID,
		tenant.ChannelRef,
		tenant.StoreRef,
		tenant.Timezone,
		tenant.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tenant: %w", err)
	}

	return nil
}

func (r *tenantRepo) GetByChannelRef(ctx context.Context, channelRef string) (*entity.Tenant, error) {
	tenant := &entity.Tenant{}
	query := `
		SELECT id, channel_ref, store_ref, timezone, is_active, created_at, updated_at
		FROM tenants
		WHERE channel_ref = ?
	`

	err := r.db.QueryRowContext(ctx, query, channelRef).Scan(
		&tenant.ID,
		&tenant.ChannelRef,
		&tenant.StoreRef,
		&tenant.Timezone,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w: %w", domain.ErrStoreUnavailable, err)
	}

	return tenant, nil
}

func (r *tenantRepo) ListActive(ctx context.Context) ([]*entity.Tenant, error) {
	query := `
		SELECT id, channel_ref, store_ref, timezone, is_active, created_at, updated_at
		FROM tenants
		WHERE is_active = 1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var tenants []*entity.Tenant
	for rows.Next() {
		tenant := &entity.Tenant{}
		err := rows.Scan(
			&tenant.ID,
			&tenant.ChannelRef,
			&tenant.StoreRef,
			&tenant.Timezone,
			&tenant.IsActive,
			&tenant.CreatedAt,
			&tenant.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}

	return tenants, rows.Err()
}
