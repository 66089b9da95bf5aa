package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, author, year,
	source_id, image_url, isbn_10, isbn_13, identifiers_json, blurhash`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt   string
		updatedAt   string
		imageURL    sql.NullString
		isbn10      sql.NullString
		isbn13      sql.NullString
		identifiers sql.NullString
		blurhash    sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&b.Author,
		&b.Year,
		&b.SourceID,
		&imageURL,
		&isbn10,
		&isbn13,
		&identifiers,
		&blurhash,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	b.ImageURL = stringOrEmpty(imageURL)
	b.ISBN10 = stringOrEmpty(isbn10)
	b.ISBN13 = stringOrEmpty(isbn13)
	b.IdentifiersJSON = stringOrEmpty(identifiers)
	b.BlurHash = stringOrEmpty(blurhash)

	return &b, nil
}

// CreateBook inserts a new book.
// Returns store.ErrAlreadyExists if the source ID is already present.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, title, author, year,
			source_id, image_url, isbn_10, isbn_13, identifiers_json, blurhash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.Year,
		book.SourceID,
		nullString(book.ImageURL),
		nullString(book.ISBN10),
		nullString(book.ISBN13),
		nullString(book.IdentifiersJSON),
		nullString(book.BlurHash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexBook(ctx, book); err != nil {
		s.logger.Warn("index book failed", "book_id", book.ID, "error", err)
	}
	return nil
}

// CreateOrGetBook inserts the book, or returns the existing record
// with the same source ID. The stored record always wins: a book
// already on file is never overwritten with fresh lookup data.
// The second return value reports whether a new row was created.
func (s *Store) CreateOrGetBook(ctx context.Context, book *domain.Book) (*domain.Book, bool, error) {
	existing, err := s.GetBookBySourceID(ctx, book.SourceID)
	if err == nil {
		return existing, false, nil
	}
	if err != store.ErrNotFound {
		return nil, false, err
	}

	err = s.CreateBook(ctx, book)
	if err == store.ErrAlreadyExists {
		// Lost a race with a concurrent insert; the other row wins.
		existing, err = s.GetBookBySourceID(ctx, book.SourceID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return book, true, nil
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookBySourceID retrieves a book by its metadata-source identifier.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBookBySourceID(ctx context.Context, sourceID string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE source_id = ?`, sourceID)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByISBN retrieves a book by ISBN-13 or ISBN-10.
// Returns store.ErrNotFound if no book matches.
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn_13 = ? OR isbn_10 = ?`, isbn, isbn)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook performs a full row update on an existing book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			created_at = ?,
			updated_at = ?,
			title = ?,
			author = ?,
			year = ?,
			source_id = ?,
			image_url = ?,
			isbn_10 = ?,
			isbn_13 = ?,
			identifiers_json = ?,
			blurhash = ?
		WHERE id = ?`,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.Year,
		book.SourceID,
		nullString(book.ImageURL),
		nullString(book.ISBN10),
		nullString(book.ISBN13),
		nullString(book.IdentifiersJSON),
		nullString(book.BlurHash),
		book.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.IndexBook(ctx, book); err != nil {
		s.logger.Warn("index book failed", "book_id", book.ID, "error", err)
	}
	return nil
}

// ListBooks returns all books ordered by title.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title COLLATE NOCASE ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooks returns the total number of books on file.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}
