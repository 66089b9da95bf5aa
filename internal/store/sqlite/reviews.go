package sqlite

import (
	"context"
	"database/sql"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/store"
)

// reviewColumns is the ordered list of review columns selected in
// review queries, joined with the book columns. Must match the scan
// order in scanReview.
const reviewColumns = `v.id, v.created_at, v.updated_at, v.book_id, v.user_id,
	v.review_text, v.date_read, v.did_not_finish, v.is_favourite,
	b.id, b.created_at, b.updated_at, b.title, b.author, b.year,
	b.source_id, b.image_url, b.isbn_10, b.isbn_13, b.identifiers_json, b.blurhash`

const reviewJoin = ` FROM reviews v JOIN books b ON b.id = v.book_id `

// scanReview scans a joined reviews+books row into a domain.Review.
func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var (
		v domain.Review
		b domain.Book

		createdAt    string
		updatedAt    string
		reviewText   sql.NullString
		dateRead     sql.NullString
		didNotFinish int
		isFavourite  int
		bCreatedAt   string
		bUpdatedAt   string
		imageURL     sql.NullString
		isbn10       sql.NullString
		isbn13       sql.NullString
		idents       sql.NullString
		blurhash     sql.NullString
	)

	err := scanner.Scan(
		&v.ID, &createdAt, &updatedAt, &v.BookID, &v.UserID,
		&reviewText, &dateRead, &didNotFinish, &isFavourite,
		&b.ID, &bCreatedAt, &bUpdatedAt, &b.Title, &b.Author, &b.Year,
		&b.SourceID, &imageURL, &isbn10, &isbn13, &idents, &blurhash,
	)
	if err != nil {
		return nil, err
	}

	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	v.ReviewText = stringOrEmpty(reviewText)
	if v.DateRead, err = parseNullableDate(dateRead); err != nil {
		return nil, err
	}
	v.DidNotFinish = didNotFinish != 0
	v.IsFavourite = isFavourite != 0

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

	v.Book = &b
	return &v, nil
}

// insertReview runs the review INSERT on any execer (db or tx).
// Reviews carry no uniqueness constraint, so re-reads just add rows.
func insertReview(ctx context.Context, db execer, review *domain.Review) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO reviews (
			id, created_at, updated_at, book_id, user_id,
			review_text, date_read, did_not_finish, is_favourite
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
		review.BookID,
		review.UserID,
		nullString(review.ReviewText),
		nullDateString(review.DateRead),
		boolToInt(review.DidNotFinish),
		boolToInt(review.IsFavourite),
	)
	return err
}

// CreateReview records a finished or abandoned read.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	if err := insertReview(ctx, s.db, review); err != nil {
		return err
	}
	s.indexReview(ctx, review)
	return nil
}

// indexReview pushes a review into the search index, best effort.
func (s *Store) indexReview(ctx context.Context, review *domain.Review) {
	book := review.Book
	if book == nil {
		var err error
		book, err = s.GetBook(ctx, review.BookID)
		if err != nil {
			s.logger.Warn("load book for review index failed", "review_id", review.ID, "error", err)
			return
		}
	}
	if err := s.searchIndexer.IndexReview(ctx, review, book); err != nil {
		s.logger.Warn("index review failed", "review_id", review.ID, "error", err)
	}
}

// GetReview retrieves a review by ID with its book joined in.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+reviewJoin+`WHERE v.id = ?`, id)

	v, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateReview updates the mutable fields of an existing review.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET
			updated_at = ?,
			review_text = ?,
			date_read = ?,
			did_not_finish = ?,
			is_favourite = ?
		WHERE id = ?`,
		formatTime(review.UpdatedAt),
		nullString(review.ReviewText),
		nullDateString(review.DateRead),
		boolToInt(review.DidNotFinish),
		boolToInt(review.IsFavourite),
		review.ID,
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

	s.indexReview(ctx, review)
	return nil
}

// DeleteReview removes a review.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
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

	if err := s.searchIndexer.DeleteReview(ctx, id); err != nil {
		s.logger.Warn("unindex review failed", "review_id", id, "error", err)
	}
	return nil
}

// ListReviews returns the user's reviews, most recently read first.
// Reviews without a read date sort last.
func (s *Store) ListReviews(ctx context.Context, userID string) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+reviewJoin+`WHERE v.user_id = ?
		ORDER BY v.date_read IS NULL, v.date_read DESC, v.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListReviewsForBook returns every review the user wrote for one book,
// oldest read first.
func (s *Store) ListReviewsForBook(ctx context.Context, userID, bookID string) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+reviewJoin+`WHERE v.user_id = ? AND v.book_id = ?
		ORDER BY v.date_read IS NULL, v.date_read ASC, v.created_at ASC`, userID, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func collectReviews(rows *sql.Rows) ([]*domain.Review, error) {
	var reviews []*domain.Review
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
