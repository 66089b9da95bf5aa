package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflog/shelflog-server/internal/domain"
)

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportService_PlansCSV(t *testing.T) {
	s := setupStore(t)
	logSvc := NewLogService(s, testLogger())
	exportSvc := NewExportService(s, testLogger())
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "x"}
	user.ID = "user_alice"
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(ctx, user))

	date, err := domain.ParseDate("2026-02-10")
	require.NoError(t, err)
	_, err = logSvc.CreatePlan(ctx, user.ID, CreatePlanRequest{
		Book:      testBookInput("vol-1"),
		Note:      "has a \"comma\", and quotes",
		DateAdded: &date,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exportSvc.PlansCSV(ctx, user.ID, &buf))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"plan_id", "title", "author", "year", "source_id", "image_url",
		"isbn_10", "isbn_13", "note", "date_added",
	}, records[0])

	row := records[1]
	assert.True(t, strings.HasPrefix(row[0], "plan-"))
	assert.Equal(t, "The Dispossessed", row[1])
	assert.Equal(t, "Ursula K. Le Guin", row[2])
	assert.Equal(t, "1974", row[3])
	assert.Equal(t, "vol-1", row[4])
	assert.Equal(t, "", row[5], "missing image URL exports empty")
	assert.Equal(t, "has a \"comma\", and quotes", row[8])
	assert.Equal(t, "2026-02-10", row[9])
}

func TestExportService_ReadingsCSV_UnknownStartDate(t *testing.T) {
	s := setupStore(t)
	logSvc := NewLogService(s, testLogger())
	exportSvc := NewExportService(s, testLogger())
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "x"}
	user.ID = "user_alice"
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(ctx, user))

	_, err := logSvc.CreateReading(ctx, user.ID, CreateReadingRequest{Book: testBookInput("vol-1")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exportSvc.ReadingsCSV(ctx, user.ID, &buf))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "date_started", records[0][9])
	assert.Equal(t, "", records[1][9], "unknown start date exports empty")
}

func TestExportService_ReviewsCSV(t *testing.T) {
	s := setupStore(t)
	logSvc := NewLogService(s, testLogger())
	exportSvc := NewExportService(s, testLogger())
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "x"}
	user.ID = "user_alice"
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(ctx, user))

	date, err := domain.ParseDate("2026-01-03")
	require.NoError(t, err)
	_, err = logSvc.CreateReview(ctx, user.ID, CreateReviewRequest{
		Book:       testBookInput("vol-1"),
		ReviewText: "line one\nline two",
		DateRead:   &date,
	})
	require.NoError(t, err)
	_, err = logSvc.CreateReview(ctx, user.ID, CreateReviewRequest{
		Book: testBookInput("vol-2"),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exportSvc.ReviewsCSV(ctx, user.ID, &buf))

	records := parseCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"review_id", "title", "author", "year", "source_id", "image_url",
		"isbn_10", "isbn_13", "review_text", "date_read",
	}, records[0])

	// Rows stream oldest first.
	assert.Equal(t, "line one\nline two", records[1][8], "embedded newline survives quoting")
	assert.Equal(t, "2026-01-03", records[1][9])
	assert.Equal(t, "", records[2][9], "unknown read date exports empty")
}

func TestExportService_EmptyLog(t *testing.T) {
	s := setupStore(t)
	exportSvc := NewExportService(s, testLogger())
	ctx := context.Background()

	user := &domain.User{Username: "alice", PasswordHash: "x"}
	user.ID = "user_alice"
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(ctx, user))

	var buf bytes.Buffer
	require.NoError(t, exportSvc.ReviewsCSV(ctx, user.ID, &buf))

	records := parseCSV(t, &buf)
	assert.Len(t, records, 1, "header only")
}

func TestFilename(t *testing.T) {
	name := Filename("reviews")
	assert.True(t, strings.HasPrefix(name, "shelflog-reviews-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
