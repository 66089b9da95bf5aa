package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a log search.
type Params struct {
	Query  string // User's search terms
	UserID string // Scopes review matches to their writer

	// Pagination
	Limit  int
	Offset int

	Highlight bool // Include match highlighting
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:     20,
		Offset:    0,
		Highlight: true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	ID         string            `json:"id"`
	Type       DocType           `json:"type"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	Author     string            `json:"author,omitempty"`
	BookID     string            `json:"book_id,omitempty"`
	Year       int               `json:"year,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a search over the user's log.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.SortBy([]string{"-_score"})

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
		searchRequest.Highlight.AddField("author")
		searchRequest.Highlight.AddField("review_text")
	}

	searchRequest.Fields = []string{"id", "type", "name", "author", "book_id", "year"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = DocType(t)
		}
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = n
		}
		if a, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = a
		}
		if b, ok := hit.Fields["book_id"].(string); ok {
			searchHit.BookID = b
		}
		if y, ok := hit.Fields["year"].(float64); ok {
			searchHit.Year = int(y)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// Query returns the IDs of books matching terms, in relevance order.
// A book appears once even when both its book document and one of the
// user's reviews match.
func (s *Index) Query(ctx context.Context, userID, terms string) ([]string, error) {
	result, err := s.Search(ctx, Params{
		Query:  terms,
		UserID: userID,
		Limit:  100,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(result.Hits))
	bookIDs := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if hit.BookID == "" || seen[hit.BookID] {
			continue
		}
		seen[hit.BookID] = true
		bookIDs = append(bookIDs, hit.BookID)
	}

	return bookIDs, nil
}

// buildSearchQuery constructs the Bleve query from params.
//
// Text matches span title, author, and review text. Review documents
// belong to their writer, so when a user is given, review matches are
// restricted to that user while book documents stay visible to all.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Title match with highest boost
		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)
		textQueries = append(textQueries, authorMatch)

		reviewMatch := bleve.NewMatchQuery(params.Query)
		reviewMatch.SetField("review_text")
		textQueries = append(textQueries, reviewMatch)

		// Fuzzy matching for typo tolerance on the title
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for incremental typing (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.UserID != "" {
		bookType := bleve.NewTermQuery(string(DocTypeBook))
		bookType.SetField("type")

		reviewType := bleve.NewTermQuery(string(DocTypeReview))
		reviewType.SetField("type")
		reviewOwner := bleve.NewTermQuery(params.UserID)
		reviewOwner.SetField("user_id")
		ownReviews := bleve.NewConjunctionQuery(reviewType, reviewOwner)

		queries = append(queries, bleve.NewDisjunctionQuery(bookType, ownReviews))
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
