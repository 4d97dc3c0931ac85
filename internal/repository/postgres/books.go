package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/repository"
)

var bookColumns = []string{
	"id",
	"title",
	"author",
	"genre",
	"rating",
	"total_copies",
	"available_copies",
	"description",
	"cover_color",
	"cover_url",
	"video_url",
	"summary",
	"created_at",
}

// BookRepository implements port.BookRepository using PostgreSQL.
type BookRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewBookRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewBookRepository(exec pgExecutor) *BookRepository {
	repo := &BookRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new book row.
func (r *BookRepository) Create(ctx context.Context, book domain.Book) error {
	stmt, args, err := r.builder.Insert("books").
		Columns(bookColumns...).
		Values(
			book.ID,
			book.Title,
			book.Author,
			book.Genre,
			book.Rating,
			book.TotalCopies,
			book.AvailableCopies,
			book.Description,
			book.CoverColor,
			book.CoverURL,
			book.VideoURL,
			book.Summary,
			book.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert book sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	return nil
}

// GetByID retrieves a book by identifier.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	stmt, args, err := r.builder.
		Select(bookColumns...).
		From("books").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select book sql: %w", err)
	}

	var book domain.Book
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Rating,
		&book.TotalCopies,
		&book.AvailableCopies,
		&book.Description,
		&book.CoverColor,
		&book.CoverURL,
		&book.VideoURL,
		&book.Summary,
		&book.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}

	return &book, nil
}

// List returns books newest first with optional genre filtering and pagination.
func (r *BookRepository) List(ctx context.Context, filter port.BookFilter) ([]domain.Book, error) {
	query := r.builder.Select(bookColumns...).
		From("books").
		OrderBy("created_at DESC")

	if filter.Genre != "" {
		query = query.Where(squirrel.Eq{"genre": filter.Genre})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list books sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]domain.Book, 0)
	for rows.Next() {
		var book domain.Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Genre,
			&book.Rating,
			&book.TotalCopies,
			&book.AvailableCopies,
			&book.Description,
			&book.CoverColor,
			&book.CoverURL,
			&book.VideoURL,
			&book.Summary,
			&book.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}

// Update modifies an existing book's fields.
func (r *BookRepository) Update(ctx context.Context, book domain.Book) error {
	stmt, args, err := r.builder.Update("books").
		Set("title", book.Title).
		Set("author", book.Author).
		Set("genre", book.Genre).
		Set("rating", book.Rating).
		Set("total_copies", book.TotalCopies).
		Set("available_copies", book.AvailableCopies).
		Set("description", book.Description).
		Set("cover_color", book.CoverColor).
		Set("cover_url", book.CoverURL).
		Set("video_url", book.VideoURL).
		Set("summary", book.Summary).
		Where(squirrel.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update book sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a book row.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("books").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete book sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AdjustAvailableCopies atomically shifts the available copy count.
// A negative delta only succeeds while enough copies remain, so two
// concurrent borrows cannot take the last copy twice.
func (r *BookRepository) AdjustAvailableCopies(ctx context.Context, id string, delta int) error {
	stmt := `
		UPDATE books
		   SET available_copies = available_copies + $1
		 WHERE id = $2
		   AND available_copies + $1 >= 0
		   AND available_copies + $1 <= total_copies
	`

	ct, err := r.exec.Exec(ctx, stmt, delta, id)
	if err != nil {
		return fmt.Errorf("adjust available copies: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.BookRepository = (*BookRepository)(nil)
