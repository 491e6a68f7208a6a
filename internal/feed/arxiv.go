package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"paperscraper/internal/domain"
	"paperscraper/internal/ports"
)

// apiBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// ArxivSource queries the arXiv Atom API and maps entries into papers.
type ArxivSource struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.PaperSource = (*ArxivSource)(nil)

// NewArxivSource wires an HTTP client; a nil client gets a 20s timeout default.
func NewArxivSource(client *http.Client, logger *slog.Logger) *ArxivSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ArxivSource{client: client, logger: logger}
}

// Search queries one bucket of category codes, sorted by last-updated
// time descending, and returns up to maxResults papers.
func (s *ArxivSource) Search(ctx context.Context, categories []string, maxResults int) ([]domain.Paper, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories provided")
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	terms := make([]string, 0, len(categories))
	for _, cat := range categories {
		terms = append(terms, "cat:"+cat)
	}

	query := url.Values{}
	query.Set("search_query", strings.Join(terms, " OR "))
	query.Set("start", "0")
	query.Set("max_results", strconv.Itoa(maxResults))
	query.Set("sortBy", "lastUpdatedDate")
	query.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "paper-scraper/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	papers := make([]domain.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		paper, err := entry.toPaper()
		if err != nil {
			s.debug("skip malformed entry", "id", entry.ID, "error", err)
			continue
		}
		papers = append(papers, paper)
	}

	return papers, nil
}

// arXiv Atom feed XML structures. The arxiv-namespaced extension elements
// (primary_category, doi, comment, journal_ref) match by local name.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string       `xml:"id"`
	Title      string       `xml:"title"`
	Summary    string       `xml:"summary"`
	Published  string       `xml:"published"`
	Updated    string       `xml:"updated"`
	Authors    []atomAuthor `xml:"author"`
	Primary    atomCategory `xml:"primary_category"`
	DOI        string       `xml:"doi"`
	Comment    string       `xml:"comment"`
	JournalRef string       `xml:"journal_ref"`
	Links      []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

func (e atomEntry) toPaper() (domain.Paper, error) {
	published, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published))
	if err != nil {
		return domain.Paper{}, fmt.Errorf("parse published: %w", err)
	}

	updated, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated))
	if err != nil {
		updated = published
	}

	id := e.pdfURL()
	if id == "" {
		return domain.Paper{}, fmt.Errorf("entry has no pdf link")
	}

	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	return domain.Paper{
		ID:              id,
		Title:           collapseWhitespace(e.Title),
		Authors:         authors,
		Abstract:        strings.TrimSpace(e.Summary),
		Published:       published.UTC(),
		Updated:         updated.UTC(),
		Version:         domain.ParseVersion(id),
		PrimaryCategory: e.Primary.Term,
		DOI:             strings.TrimSpace(e.DOI),
		Comment:         collapseWhitespace(e.Comment),
		JournalRef:      collapseWhitespace(e.JournalRef),
	}, nil
}

// pdfURL picks the versioned PDF link, falling back to rewriting the
// entry's abs URL when the feed omits a pdf-titled link.
func (e atomEntry) pdfURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	if strings.Contains(e.ID, "/abs/") {
		return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}
	return ""
}

// collapseWhitespace undoes the Atom feed's line folding so titles
// compare equal across the updated and published subsets.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (s *ArxivSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
