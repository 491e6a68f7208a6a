package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <published>2026-01-10T09:00:00Z</published>
    <updated>2026-08-20T17:30:00Z</updated>
    <title>Sample Paper:
  A Folded Title</title>
    <summary>  An abstract about nothing in particular.  </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <arxiv:comment>10 pages, 3 figures</arxiv:comment>
    <arxiv:journal_ref>J. Test 1 (2026) 1-10</arxiv:journal_ref>
    <arxiv:doi>10.1000/test.2026</arxiv:doi>
    <link href="http://arxiv.org/abs/2301.07041v2" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v2" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.AI" scheme="http://arxiv.org/terms/arXiv"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2509.00001v1</id>
    <published>2026-08-24T08:00:00Z</published>
    <updated>2026-08-24T08:00:00Z</updated>
    <title>Unrevised Paper</title>
    <summary>Fresh publish.</summary>
    <author><name>Grace Hopper</name></author>
    <arxiv:primary_category term="cs.CR" scheme="http://arxiv.org/terms/arXiv"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/malformed</id>
    <title>No Dates</title>
  </entry>
</feed>`

func TestSearchParsesFeed(t *testing.T) {
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	prev := apiBase
	apiBase = server.URL
	defer func() { apiBase = prev }()

	source := NewArxivSource(server.Client(), nil)
	papers, err := source.Search(context.Background(), []string{"cs.AI", "cs.LG"}, 50)
	require.NoError(t, err)

	assert.Equal(t, []string{"cat:cs.AI OR cat:cs.LG"}, gotQuery["search_query"])
	assert.Equal(t, []string{"lastUpdatedDate"}, gotQuery["sortBy"])
	assert.Equal(t, []string{"descending"}, gotQuery["sortOrder"])
	assert.Equal(t, []string{"50"}, gotQuery["max_results"])

	// The malformed entry is skipped, not fatal.
	require.Len(t, papers, 2)

	revised := papers[0]
	assert.Equal(t, "http://arxiv.org/pdf/2301.07041v2", revised.ID)
	assert.Equal(t, 2, revised.Version)
	assert.Equal(t, "Sample Paper: A Folded Title", revised.Title)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, revised.Authors)
	assert.Equal(t, "An abstract about nothing in particular.", revised.Abstract)
	assert.Equal(t, time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC), revised.Published)
	assert.Equal(t, time.Date(2026, time.August, 20, 17, 30, 0, 0, time.UTC), revised.Updated)
	assert.Equal(t, "cs.AI", revised.PrimaryCategory)
	assert.Equal(t, "10.1000/test.2026", revised.DOI)
	assert.Equal(t, "10 pages, 3 figures", revised.Comment)
	assert.Equal(t, "J. Test 1 (2026) 1-10", revised.JournalRef)

	fresh := papers[1]
	// No pdf-titled link: the abs URL is rewritten.
	assert.Equal(t, "http://arxiv.org/pdf/2509.00001v1", fresh.ID)
	assert.Equal(t, 1, fresh.Version)
	assert.Equal(t, "cs.CR", fresh.PrimaryCategory)
	assert.Equal(t, fresh.Published, fresh.Updated)
}

func TestSearchRejectsEmptyCategories(t *testing.T) {
	t.Parallel()

	source := NewArxivSource(nil, nil)
	_, err := source.Search(context.Background(), nil, 50)

	require.Error(t, err)
}

func TestSearchUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	prev := apiBase
	apiBase = server.URL
	defer func() { apiBase = prev }()

	source := NewArxivSource(server.Client(), nil)
	_, err := source.Search(context.Background(), []string{"cs.AI"}, 50)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
