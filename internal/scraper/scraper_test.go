package scraper_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/scraper"
	"github.com/raysh454/skim/internal/tabular"
	"github.com/raysh454/skim/internal/webclient"
)

const rankingsFixture = `<html><head><title>League Rankings</title></head><body>
<div class="rankings">
	<table>
		<tr><th>Rank</th><th>Team</th><th>Points</th></tr>
		<tr><td>12</td><td>Harriers</td><td>48</td></tr>
		<tr><td>dangling</td></tr>
		<tr><td>12</td><td>Rovers</td><td>48</td></tr>
		<tr><td>14</td><td>United</td><td>45</td></tr>
	</table>
</div>
</body></html>`

func newScraper(t *testing.T, pageURL string) *scraper.Scraper {
	t.Helper()
	wc, err := webclient.NewNetHTTPClient(webclient.Config{}, interfaces.NewTestLogger(false), nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { _ = wc.Close() })

	cfg := scraper.DefaultConfig()
	cfg.PageURL = pageURL
	return scraper.New(cfg, wc, interfaces.NewTestLogger(false))
}

func TestScrape_EndToEnd(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, rankingsFixture)
	}))
	t.Cleanup(ts.Close)

	result, err := newScraper(t, ts.URL+"/rankings").Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	if result.Title != "League Rankings" {
		t.Errorf("title = %q", result.Title)
	}
	if diff := cmp.Diff([]string{"Rank", "Team", "Points"}, result.Table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	wantRows := [][]string{
		{"12", "Harriers", "48"},
		{"12", "Rovers", "48"},
		{"14", "United", "45"},
	}
	if diff := cmp.Diff(wantRows, result.Table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	// Default config reindexes by Rank; ties survive.
	if result.Keyed == nil {
		t.Fatal("expected a keyed table")
	}
	if tied := result.Keyed.Lookup("12"); len(tied) != 2 {
		t.Errorf("expected 2 tied rank-12 rows, got %d", len(tied))
	}
}

func TestScrape_Non200IsFatal(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	_, err := newScraper(t, ts.URL).Scrape(context.Background())
	var se *webclient.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
}

func TestScrape_MissingContainerIsFatal(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><p>no table here</p></body></html>`)
	}))
	t.Cleanup(ts.Close)

	_, err := newScraper(t, ts.URL).Scrape(context.Background())
	if !errors.Is(err, tabular.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}
