package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harishas/autofolio/internal/domain"
)

// PostgresResourceRepository implements domain.ResourceRepository using
// PostgreSQL. Query text is assembled exclusively from the kind enum's
// dispatch table and schema; caller strings never reach it.
type PostgresResourceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresResourceRepository creates a new resource repository
func NewPostgresResourceRepository(db *sql.DB, logger *slog.Logger) *PostgresResourceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresResourceRepository{db: db, logger: logger}
}

// selectList builds the SELECT column list for a kind. Nullable columns are
// coalesced so rows created before a schema patch scan cleanly.
func selectList(kind domain.Kind) string {
	schema := kind.Schema()
	cols := make([]string, 0, len(schema)+2)
	cols = append(cols, "id", "account_id")
	for _, f := range schema {
		switch f.Type {
		case domain.FieldText:
			cols = append(cols, fmt.Sprintf("COALESCE(%s, '')", f.Name))
		case domain.FieldBool:
			cols = append(cols, fmt.Sprintf("COALESCE(%s, TRUE)", f.Name))
		case domain.FieldInt:
			cols = append(cols, fmt.Sprintf("COALESCE(%s, 0)", f.Name))
		}
	}
	return strings.Join(cols, ", ")
}

func scanItem(kind domain.Kind, scan func(...any) error) (*domain.Item, error) {
	it := &domain.Item{}
	dests := []any{&it.ID, &it.AccountID}
	for _, f := range kind.Schema() {
		dests = append(dests, it.ScanDest(f.Name))
	}
	if err := scan(dests...); err != nil {
		return nil, err
	}
	return it, nil
}

// List returns all items of a kind owned by an account, ordered for display
func (r *PostgresResourceRepository) List(ctx context.Context, kind domain.Kind, accountID int64) ([]*domain.Item, error) {
	return r.list(ctx, kind, accountID, false)
}

// ListVisible returns only publicly visible items, ordered for display
func (r *PostgresResourceRepository) ListVisible(ctx context.Context, kind domain.Kind, accountID int64) ([]*domain.Item, error) {
	return r.list(ctx, kind, accountID, true)
}

func (r *PostgresResourceRepository) list(ctx context.Context, kind domain.Kind, accountID int64, visibleOnly bool) ([]*domain.Item, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE account_id = $1",
		selectList(kind), kind.Table(),
	)
	if visibleOnly {
		query += " AND is_visible = TRUE"
	}
	query += " ORDER BY display_order ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		r.logger.Error("failed to list items",
			slog.String("kind", kind.String()),
			slog.Int64("account_id", accountID),
			slog.String("error", err.Error()),
		)
		return nil, domain.StorageError("list "+kind.String(), err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		it, err := scanItem(kind, rows.Scan)
		if err != nil {
			return nil, domain.StorageError("scan "+kind.String(), err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list "+kind.String(), err)
	}
	return items, nil
}

// Get retrieves one item scoped by id and owning account
func (r *PostgresResourceRepository) Get(ctx context.Context, kind domain.Kind, accountID, id int64) (*domain.Item, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = $1 AND account_id = $2",
		selectList(kind), kind.Table(),
	)

	it, err := scanItem(kind, r.db.QueryRowContext(ctx, query, id, accountID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageError("get "+kind.String(), err)
	}
	return it, nil
}

// Insert creates a new item with the owner reference forced to accountID.
// Unsupplied columns take their storage defaults.
func (r *PostgresResourceRepository) Insert(ctx context.Context, kind domain.Kind, accountID int64, fields domain.Fields) (int64, error) {
	cols := []string{"account_id"}
	values := []any{accountID}

	// schema order keeps generated statements deterministic
	for _, f := range kind.Schema() {
		if v, ok := fields[f.Name]; ok {
			cols = append(cols, f.Name)
			values = append(values, v)
		}
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		kind.Table(), strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	var id int64
	if err := r.db.QueryRowContext(ctx, query, values...).Scan(&id); err != nil {
		r.logger.Error("failed to insert item",
			slog.String("kind", kind.String()),
			slog.Int64("account_id", accountID),
			slog.String("error", err.Error()),
		)
		return 0, domain.StorageError("insert "+kind.String(), err)
	}
	return id, nil
}

// Update rewrites only the supplied fields, scoped by id and owning
// account. A write that matches zero rows reports domain.ErrNotFound so a
// foreign id is distinguishable from a successful update.
func (r *PostgresResourceRepository) Update(ctx context.Context, kind domain.Kind, accountID, id int64, fields domain.Fields) error {
	if len(fields) == 0 {
		// Nothing to rewrite; still verify the row exists and is owned.
		_, err := r.Get(ctx, kind, accountID, id)
		return err
	}

	var sets []string
	var values []any
	for _, f := range kind.Schema() {
		if v, ok := fields[f.Name]; ok {
			sets = append(sets, fmt.Sprintf("%s = $%d", f.Name, len(values)+1))
			values = append(values, v)
		}
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d AND account_id = $%d",
		kind.Table(), strings.Join(sets, ", "), len(values)+1, len(values)+2,
	)
	values = append(values, id, accountID)

	res, err := r.db.ExecContext(ctx, query, values...)
	if err != nil {
		r.logger.Error("failed to update item",
			slog.String("kind", kind.String()),
			slog.Int64("account_id", accountID),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return domain.StorageError("update "+kind.String(), err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.StorageError("update "+kind.String(), err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an item scoped by id and owning account. Deleting a
// missing or foreign id is a silent no-op.
func (r *PostgresResourceRepository) Delete(ctx context.Context, kind domain.Kind, accountID, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND account_id = $2", kind.Table())
	if _, err := r.db.ExecContext(ctx, query, id, accountID); err != nil {
		return domain.StorageError("delete "+kind.String(), err)
	}
	return nil
}

// Reorder assigns display_order i+1 to orderedIDs[i] inside one
// transaction. Ids not owned by the account update zero rows and are
// skipped; any failure rolls the whole resequencing back.
func (r *PostgresResourceRepository) Reorder(ctx context.Context, kind domain.Kind, accountID int64, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("reorder "+kind.String(), err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(
		"UPDATE %s SET display_order = $1 WHERE id = $2 AND account_id = $3",
		kind.Table(),
	)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return domain.StorageError("reorder "+kind.String(), err)
	}
	defer stmt.Close()

	for i, id := range orderedIDs {
		if _, err := stmt.ExecContext(ctx, i+1, id, accountID); err != nil {
			return domain.StorageError("reorder "+kind.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError("reorder "+kind.String(), err)
	}
	return nil
}
