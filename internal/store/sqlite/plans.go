package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/store"
)

// planColumns is the ordered list of plan columns selected in plan
// queries, joined with the book columns. Must match the scan order in
// scanPlan.
const planColumns = `p.id, p.created_at, p.updated_at, p.book_id, p.user_id, p.note, p.date_added,
	b.id, b.created_at, b.updated_at, b.title, b.author, b.year,
	b.source_id, b.image_url, b.isbn_10, b.isbn_13, b.identifiers_json, b.blurhash`

const planJoin = ` FROM plans p JOIN books b ON b.id = p.book_id `

// scanPlan scans a joined plans+books row into a domain.Plan.
func scanPlan(scanner interface{ Scan(dest ...any) error }) (*domain.Plan, error) {
	var (
		p domain.Plan
		b domain.Book

		createdAt  string
		updatedAt  string
		note       sql.NullString
		dateAdded  string
		bCreatedAt string
		bUpdatedAt string
		imageURL   sql.NullString
		isbn10     sql.NullString
		isbn13     sql.NullString
		idents     sql.NullString
		blurhash   sql.NullString
	)

	err := scanner.Scan(
		&p.ID, &createdAt, &updatedAt, &p.BookID, &p.UserID, &note, &dateAdded,
		&b.ID, &bCreatedAt, &bUpdatedAt, &b.Title, &b.Author, &b.Year,
		&b.SourceID, &imageURL, &isbn10, &isbn13, &idents, &blurhash,
	)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	p.Note = stringOrEmpty(note)
	if p.DateAdded, err = domain.ParseDate(dateAdded); err != nil {
		return nil, err
	}

	if b.CreatedAt, err = parseTime(bCreatedAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(bUpdatedAt); err != nil {
		return nil, err
	}
	b.ImageURL = stringOrEmpty(imageURL)
	b.ISBN10 = stringOrEmpty(isbn10)
	b.ISBN13 = stringOrEmpty(isbn13)
	b.IdentifiersJSON = stringOrEmpty(idents)
	b.BlurHash = stringOrEmpty(blurhash)

	p.Book = &b
	return &p, nil
}

// insertPlan runs the plan INSERT on any execer (db or tx), translating
// the (book_id, user_id) uniqueness violation to store.ErrPlanExists.
func insertPlan(ctx context.Context, db execer, plan *domain.Plan) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO plans (id, created_at, updated_at, book_id, user_id, note, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		formatTime(plan.CreatedAt),
		formatTime(plan.UpdatedAt),
		plan.BookID,
		plan.UserID,
		nullString(plan.Note),
		plan.DateAdded.String(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrPlanExists
	}
	return err
}

// CreatePlan adds a book to the user's plan list.
// Returns store.ErrPlanExists if the book is already planned.
func (s *Store) CreatePlan(ctx context.Context, plan *domain.Plan) error {
	return insertPlan(ctx, s.db, plan)
}

// GetPlan retrieves a plan by ID with its book joined in.
// Returns store.ErrNotFound if the plan does not exist.
func (s *Store) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+planColumns+planJoin+`WHERE p.id = ?`, id)

	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPlanForBook retrieves the user's plan for a specific book.
// Returns store.ErrNotFound if the book is not planned.
func (s *Store) GetPlanForBook(ctx context.Context, userID, bookID string) (*domain.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+planColumns+planJoin+`WHERE p.user_id = ? AND p.book_id = ?`, userID, bookID)

	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlan updates the mutable fields of an existing plan.
// Returns store.ErrNotFound if the plan does not exist.
func (s *Store) UpdatePlan(ctx context.Context, plan *domain.Plan) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE plans SET updated_at = ?, note = ?, date_added = ?
		WHERE id = ?`,
		formatTime(plan.UpdatedAt),
		nullString(plan.Note),
		plan.DateAdded.String(),
		plan.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeletePlan removes a plan.
// Returns store.ErrNotFound if the plan does not exist.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListPlans returns the user's plans, most recently added first.
func (s *Store) ListPlans(ctx context.Context, userID string) ([]*domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+planColumns+planJoin+`WHERE p.user_id = ?
		ORDER BY p.date_added DESC, p.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}
