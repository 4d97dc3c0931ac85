package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/repository"
)

var borrowColumns = []string{
	"id",
	"user_id",
	"book_id",
	"borrow_date",
	"due_date",
	"return_date",
	"status",
	"created_at",
}

// BorrowRepository implements port.BorrowRepository using PostgreSQL.
type BorrowRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewBorrowRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewBorrowRepository(exec pgExecutor) *BorrowRepository {
	repo := &BorrowRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new borrow record.
func (r *BorrowRepository) Create(ctx context.Context, record domain.BorrowRecord) error {
	stmt, args, err := r.builder.Insert("borrow_records").
		Columns(borrowColumns...).
		Values(
			record.ID,
			record.UserID,
			record.BookID,
			record.BorrowDate,
			record.DueDate,
			record.ReturnDate,
			record.Status,
			record.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert borrow record sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert borrow record: %w", err)
	}

	return nil
}

// GetByID retrieves a borrow record by identifier.
func (r *BorrowRepository) GetByID(ctx context.Context, id string) (*domain.BorrowRecord, error) {
	stmt, args, err := r.builder.
		Select(borrowColumns...).
		From("borrow_records").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select borrow record sql: %w", err)
	}

	var record domain.BorrowRecord
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&record.ID,
		&record.UserID,
		&record.BookID,
		&record.BorrowDate,
		&record.DueDate,
		&record.ReturnDate,
		&record.Status,
		&record.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan borrow record: %w", err)
	}

	return &record, nil
}

// ListByUser returns the borrow history for a user, newest first.
func (r *BorrowRepository) ListByUser(ctx context.Context, userID string) ([]domain.BorrowRecord, error) {
	stmt, args, err := r.builder.
		Select(borrowColumns...).
		From("borrow_records").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list borrows by user sql: %w", err)
	}

	return r.queryMany(ctx, stmt, args)
}

// List returns borrow records across all users, newest first.
func (r *BorrowRepository) List(ctx context.Context, limit, offset int) ([]domain.BorrowRecord, error) {
	query := r.builder.
		Select(borrowColumns...).
		From("borrow_records").
		OrderBy("created_at DESC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list borrows sql: %w", err)
	}

	return r.queryMany(ctx, stmt, args)
}

func (r *BorrowRepository) queryMany(ctx context.Context, stmt string, args []any) ([]domain.BorrowRecord, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query borrow records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.BorrowRecord, 0)
	for rows.Next() {
		var record domain.BorrowRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.BookID,
			&record.BorrowDate,
			&record.DueDate,
			&record.ReturnDate,
			&record.Status,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan borrow record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate borrow records: %w", err)
	}

	return records, nil
}

// MarkReturned closes an open borrow record.
func (r *BorrowRepository) MarkReturned(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("borrow_records").
		Set("status", domain.BorrowStatusReturned).
		Set("return_date", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.BorrowStatusBorrowed}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark returned sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark borrow record returned: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.BorrowRepository = (*BorrowRepository)(nil)
