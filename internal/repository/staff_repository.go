package repository

import (
	"context"
)

// StaffRepository supplies the active agent roster used to key per-staff
// rollups (inactive agents keep their historical rows but get no new ones).
type StaffRepository interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type staffRepository struct {
	db Querier
}

// NewStaffRepository instantiates repository.
func NewStaffRepository(db Querier) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM staff_members WHERE active ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
