package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/store"
)

// readingColumns is the ordered list of reading columns selected in
// reading queries, joined with the book columns. Must match the scan
// order in scanReading.
const readingColumns = `r.id, r.created_at, r.updated_at, r.book_id, r.user_id, r.note, r.date_started,
	b.id, b.created_at, b.updated_at, b.title, b.author, b.year,
	b.source_id, b.image_url, b.isbn_10, b.isbn_13, b.identifiers_json, b.blurhash`

const readingJoin = ` FROM readings r JOIN books b ON b.id = r.book_id `

// scanReading scans a joined readings+books row into a domain.Reading.
func scanReading(scanner interface{ Scan(dest ...any) error }) (*domain.Reading, error) {
	var (
		r domain.Reading
		b domain.Book

		createdAt   string
		updatedAt   string
		note        sql.NullString
		dateStarted sql.NullString
		bCreatedAt  string
		bUpdatedAt  string
		imageURL    sql.NullString
		isbn10      sql.NullString
		isbn13      sql.NullString
		idents      sql.NullString
		blurhash    sql.NullString
	)

	err := scanner.Scan(
		&r.ID, &createdAt, &updatedAt, &r.BookID, &r.UserID, &note, &dateStarted,
		&b.ID, &bCreatedAt, &bUpdatedAt, &b.Title, &b.Author, &b.Year,
		&b.SourceID, &imageURL, &isbn10, &isbn13, &idents, &blurhash,
	)
	if err != nil {
		return nil, err
	}

	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	r.Note = stringOrEmpty(note)
	if r.DateStarted, err = parseNullableDate(dateStarted); err != nil {
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

	r.Book = &b
	return &r, nil
}

// insertReading runs the reading INSERT on any execer (db or tx),
// translating the (book_id, user_id) uniqueness violation to
// store.ErrReadingExists.
func insertReading(ctx context.Context, db execer, reading *domain.Reading) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO readings (id, created_at, updated_at, book_id, user_id, note, date_started)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reading.ID,
		formatTime(reading.CreatedAt),
		formatTime(reading.UpdatedAt),
		reading.BookID,
		reading.UserID,
		nullString(reading.Note),
		nullDateString(reading.DateStarted),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrReadingExists
	}
	return err
}

// CreateReading marks a book as currently being read.
// Returns store.ErrReadingExists if the book is already in progress.
func (s *Store) CreateReading(ctx context.Context, reading *domain.Reading) error {
	return insertReading(ctx, s.db, reading)
}

// GetReading retrieves a reading by ID with its book joined in.
// Returns store.ErrNotFound if the reading does not exist.
func (s *Store) GetReading(ctx context.Context, id string) (*domain.Reading, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+readingColumns+readingJoin+`WHERE r.id = ?`, id)

	r, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetReadingForBook retrieves the user's in-progress record for a book.
// Returns store.ErrNotFound if the book is not being read.
func (s *Store) GetReadingForBook(ctx context.Context, userID, bookID string) (*domain.Reading, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+readingColumns+readingJoin+`WHERE r.user_id = ? AND r.book_id = ?`, userID, bookID)

	r, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReading updates the mutable fields of an existing reading.
// Returns store.ErrNotFound if the reading does not exist.
func (s *Store) UpdateReading(ctx context.Context, reading *domain.Reading) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE readings SET updated_at = ?, note = ?, date_started = ?
		WHERE id = ?`,
		formatTime(reading.UpdatedAt),
		nullString(reading.Note),
		nullDateString(reading.DateStarted),
		reading.ID,
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

// DeleteReading removes a reading.
// Returns store.ErrNotFound if the reading does not exist.
func (s *Store) DeleteReading(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ?`, id)
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

// ListReadings returns the user's in-progress books, most recently started first.
func (s *Store) ListReadings(ctx context.Context, userID string) ([]*domain.Reading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+readingColumns+readingJoin+`WHERE r.user_id = ?
		ORDER BY r.date_started DESC, r.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*domain.Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}
