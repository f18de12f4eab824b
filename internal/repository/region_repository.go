package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrimech/crm-service/internal/domain"
)

// RegionRepository spans the three-level sales territory hierarchy. Passing
// an empty parent ID to the List* methods returns every row at that level.
type RegionRepository interface {
	CreateRegion(ctx context.Context, region *domain.RegionalZone) error
	UpdateRegion(ctx context.Context, region *domain.RegionalZone) error
	DeleteRegion(ctx context.Context, id string) error
	GetRegion(ctx context.Context, id string) (*domain.RegionalZone, error)
	ListRegions(ctx context.Context) ([]domain.RegionalZone, error)

	GetSubRegion(ctx context.Context, id string) (*domain.SubRegional, error)
	ListSubRegions(ctx context.Context, regionID string) ([]domain.SubRegional, error)

	GetShowroom(ctx context.Context, id string) (*domain.Showroom, error)
	ListShowrooms(ctx context.Context, subRegionID string) ([]domain.Showroom, error)

	UpdateRegionTarget(ctx context.Context, id string, target int64) error
	UpdateSubRegionTarget(ctx context.Context, id string, target int64) error
	UpdateShowroomTarget(ctx context.Context, id string, target int64) error
}

type regionRepository struct {
	pool *pgxpool.Pool
}

// NewRegionRepository instantiates repository.
func NewRegionRepository(pool *pgxpool.Pool) RegionRepository {
	return &regionRepository{pool: pool}
}

func (r *regionRepository) CreateRegion(ctx context.Context, region *domain.RegionalZone) error {
	const query = `
        INSERT INTO regional_zones (name, annual_target, current_year_achievement, last_year_revenue)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		region.Name,
		region.AnnualTarget,
		region.CurrentYearAchievement,
		region.LastYearRevenue,
	).Scan(&region.ID, &region.CreatedAt, &region.UpdatedAt)
}

func (r *regionRepository) UpdateRegion(ctx context.Context, region *domain.RegionalZone) error {
	const query = `
        UPDATE regional_zones SET name=$1, annual_target=$2, current_year_achievement=$3,
            last_year_revenue=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		region.Name,
		region.AnnualTarget,
		region.CurrentYearAchievement,
		region.LastYearRevenue,
		region.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *regionRepository) DeleteRegion(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM regional_zones WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *regionRepository) GetRegion(ctx context.Context, id string) (*domain.RegionalZone, error) {
	const query = `
        SELECT id, name, annual_target, current_year_achievement, last_year_revenue, created_at, updated_at
        FROM regional_zones WHERE id=$1`
	var region domain.RegionalZone
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&region.ID,
		&region.Name,
		&region.AnnualTarget,
		&region.CurrentYearAchievement,
		&region.LastYearRevenue,
		&region.CreatedAt,
		&region.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *regionRepository) ListRegions(ctx context.Context) ([]domain.RegionalZone, error) {
	const query = `
        SELECT id, name, annual_target, current_year_achievement, last_year_revenue, created_at, updated_at
        FROM regional_zones ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RegionalZone
	for rows.Next() {
		var region domain.RegionalZone
		if err := rows.Scan(
			&region.ID,
			&region.Name,
			&region.AnnualTarget,
			&region.CurrentYearAchievement,
			&region.LastYearRevenue,
			&region.CreatedAt,
			&region.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, region)
	}
	return result, rows.Err()
}

func (r *regionRepository) GetSubRegion(ctx context.Context, id string) (*domain.SubRegional, error) {
	const query = `
        SELECT id, region_id, name, annual_target, current_year_achievement, last_year_revenue, created_at, updated_at
        FROM sub_regionals WHERE id=$1`
	var sub domain.SubRegional
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.RegionID,
		&sub.Name,
		&sub.AnnualTarget,
		&sub.CurrentYearAchievement,
		&sub.LastYearRevenue,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *regionRepository) ListSubRegions(ctx context.Context, regionID string) ([]domain.SubRegional, error) {
	query := `
        SELECT id, region_id, name, annual_target, current_year_achievement, last_year_revenue, created_at, updated_at
        FROM sub_regionals`
	args := []any{}
	if regionID != "" {
		query += ` WHERE region_id=$1`
		args = append(args, regionID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SubRegional
	for rows.Next() {
		var sub domain.SubRegional
		if err := rows.Scan(
			&sub.ID,
			&sub.RegionID,
			&sub.Name,
			&sub.AnnualTarget,
			&sub.CurrentYearAchievement,
			&sub.LastYearRevenue,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

func (r *regionRepository) GetShowroom(ctx context.Context, id string) (*domain.Showroom, error) {
	const query = `
        SELECT id, sub_region_id, name, city, annual_target, current_year_achievement, last_year_revenue, is_active, created_at, updated_at
        FROM showrooms WHERE id=$1`
	var showroom domain.Showroom
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&showroom.ID,
		&showroom.SubRegionID,
		&showroom.Name,
		&showroom.City,
		&showroom.AnnualTarget,
		&showroom.CurrentYearAchievement,
		&showroom.LastYearRevenue,
		&showroom.IsActive,
		&showroom.CreatedAt,
		&showroom.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &showroom, nil
}

func (r *regionRepository) ListShowrooms(ctx context.Context, subRegionID string) ([]domain.Showroom, error) {
	query := `
        SELECT id, sub_region_id, name, city, annual_target, current_year_achievement, last_year_revenue, is_active, created_at, updated_at
        FROM showrooms`
	args := []any{}
	if subRegionID != "" {
		query += ` WHERE sub_region_id=$1`
		args = append(args, subRegionID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Showroom
	for rows.Next() {
		var showroom domain.Showroom
		if err := rows.Scan(
			&showroom.ID,
			&showroom.SubRegionID,
			&showroom.Name,
			&showroom.City,
			&showroom.AnnualTarget,
			&showroom.CurrentYearAchievement,
			&showroom.LastYearRevenue,
			&showroom.IsActive,
			&showroom.CreatedAt,
			&showroom.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, showroom)
	}
	return result, rows.Err()
}

func (r *regionRepository) UpdateRegionTarget(ctx context.Context, id string, target int64) error {
	return r.updateTarget(ctx, `UPDATE regional_zones SET annual_target=$1, updated_at=NOW() WHERE id=$2`, id, target)
}

func (r *regionRepository) UpdateSubRegionTarget(ctx context.Context, id string, target int64) error {
	return r.updateTarget(ctx, `UPDATE sub_regionals SET annual_target=$1, updated_at=NOW() WHERE id=$2`, id, target)
}

func (r *regionRepository) UpdateShowroomTarget(ctx context.Context, id string, target int64) error {
	return r.updateTarget(ctx, `UPDATE showrooms SET annual_target=$1, updated_at=NOW() WHERE id=$2`, id, target)
}

func (r *regionRepository) updateTarget(ctx context.Context, query, id string, target int64) error {
	cmd, err := r.pool.Exec(ctx, query, target, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
