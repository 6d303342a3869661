package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bomberquiz/internal/models"
)

type MilitaryRankSQLite struct {
	db *sql.DB
}

func NewMilitaryRankSQLite(db *sql.DB) *MilitaryRankSQLite {
	return &MilitaryRankSQLite{db: db}
}

var _ MilitaryRankRepository = (*MilitaryRankSQLite)(nil)

const (
	insertRankSQL       = `INSERT INTO military_ranks (id, rank_order, name) VALUES (?, ?, ?)`
	selectRankByIDSQL   = `SELECT id, rank_order, name FROM military_ranks WHERE id = ?`
	selectRankByNameSQL = `SELECT id, rank_order, name FROM military_ranks WHERE name = ?`
	listRanksSQL        = `SELECT id, rank_order, name FROM military_ranks ORDER BY rank_order, name`
	updateRankSQL       = `UPDATE military_ranks SET rank_order = ?, name = ? WHERE id = ?`
	deleteRankSQL       = `DELETE FROM military_ranks WHERE id = ?`
)

func (r *MilitaryRankSQLite) Create(ctx context.Context, rank *models.MilitaryRank) error {
	if _, err := r.db.ExecContext(ctx, insertRankSQL, rank.ID, rank.Order, rank.Name); err != nil {
		return wrapWriteErr(fmt.Sprintf("insert military rank %q", rank.Name), err)
	}
	return nil
}

func (r *MilitaryRankSQLite) getOne(ctx context.Context, query, arg string) (*models.MilitaryRank, error) {
	var rank models.MilitaryRank
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&rank.ID, &rank.Order, &rank.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rank, nil
}

// GetByID returns (nil, nil) if the rank does not exist.
func (r *MilitaryRankSQLite) GetByID(ctx context.Context, id string) (*models.MilitaryRank, error) {
	rank, err := r.getOne(ctx, selectRankByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select military rank %q: %w", id, err)
	}
	return rank, nil
}

// GetByName matches case-insensitively (the column is declared COLLATE NOCASE).
func (r *MilitaryRankSQLite) GetByName(ctx context.Context, name string) (*models.MilitaryRank, error) {
	rank, err := r.getOne(ctx, selectRankByNameSQL, name)
	if err != nil {
		return nil, fmt.Errorf("select military rank by name %q: %w", name, err)
	}
	return rank, nil
}

// List returns every rank ordered by hierarchy position.
func (r *MilitaryRankSQLite) List(ctx context.Context) ([]models.MilitaryRank, error) {
	rows, err := r.db.QueryContext(ctx, listRanksSQL)
	if err != nil {
		return nil, fmt.Errorf("list military ranks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.MilitaryRank, 0)
	for rows.Next() {
		var rank models.MilitaryRank
		if err := rows.Scan(&rank.ID, &rank.Order, &rank.Name); err != nil {
			return nil, fmt.Errorf("scan military rank: %w", err)
		}
		out = append(out, rank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate military ranks: %w", err)
	}
	return out, nil
}

func (r *MilitaryRankSQLite) Update(ctx context.Context, rank *models.MilitaryRank) error {
	res, err := r.db.ExecContext(ctx, updateRankSQL, rank.Order, rank.Name, rank.ID)
	if err != nil {
		return wrapWriteErr(fmt.Sprintf("update military rank %q", rank.ID), err)
	}
	return expectOneRow("update military rank", res)
}

// Delete removes the rank; users referencing it get a NULL rank (ON DELETE SET NULL).
func (r *MilitaryRankSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteRankSQL, id)
	if err != nil {
		return fmt.Errorf("delete military rank %q: %w", id, err)
	}
	return expectOneRow("delete military rank", res)
}
