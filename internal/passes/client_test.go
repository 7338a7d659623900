package passes_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/passes"
	"github.com/raysh454/skim/internal/webclient"
)

const passFixture = `{
	"message": "success",
	"request": {"latitude": 40.71, "longitude": -74.0, "passes": 2},
	"response": [
		{"risetime": 1566374728, "duration": 642},
		{"risetime": 1566380552, "duration": 623}
	]
}`

const astrosFixture = `{
	"message": "success",
	"number": 6,
	"people": [
		{"name": "Alexey Ovchinin", "craft": "ISS"},
		{"name": "Nick Hague", "craft": "ISS"},
		{"name": "Christina Koch", "craft": "ISS"},
		{"name": "Alexander Skvortsov", "craft": "ISS"},
		{"name": "Luca Parmitano", "craft": "ISS"},
		{"name": "Andrew Morgan", "craft": "ISS"}
	]
}`

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/iss-pass.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lon") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, passFixture)
	})
	mux.HandleFunc("/astros.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, astrosFixture)
	})
	mux.HandleFunc("/gone.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		// Deliberately not JSON: decoding this body would fail loudly.
		_, _ = io.WriteString(w, "<html>not found</html>")
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, cfg passes.Config) *passes.Client {
	t.Helper()
	wc, err := webclient.NewNetHTTPClient(webclient.Config{}, interfaces.NewTestLogger(false), nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { _ = wc.Close() })
	return passes.NewClient(cfg, wc, interfaces.NewTestLogger(false)).InLocation(time.UTC)
}

func TestUpcomingPasses(t *testing.T) {
	t.Parallel()
	ts := fixtureServer(t)
	client := newTestClient(t, passes.Config{
		PassURL:   ts.URL + "/iss-pass.json",
		AstrosURL: ts.URL + "/astros.json",
	})

	got, err := client.UpcomingPasses(context.Background(), 40.71, -74.0)
	if err != nil {
		t.Fatalf("UpcomingPasses: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(got))
	}
	first := got[0]
	if first.Risetime != 1566374728 || first.Duration != 642 {
		t.Errorf("first pass = %+v", first)
	}
	if first.Date != "2019-08-21" || first.Time != "07:25:28" {
		t.Errorf("first pass formatted as %s %s", first.Date, first.Time)
	}
	if got[1].Risetime <= first.Risetime {
		t.Errorf("passes out of response order: %+v", got)
	}

	want := "The ISS will pass overhead on 2019-08-21 at 07:25:28 for 642 seconds."
	if s := first.Describe(); s != want {
		t.Errorf("Describe = %q, want %q", s, want)
	}
}

func TestPeopleInSpace(t *testing.T) {
	t.Parallel()
	ts := fixtureServer(t)
	client := newTestClient(t, passes.Config{
		PassURL:   ts.URL + "/iss-pass.json",
		AstrosURL: ts.URL + "/astros.json",
	})

	number, people, err := client.PeopleInSpace(context.Background())
	if err != nil {
		t.Fatalf("PeopleInSpace: %v", err)
	}
	if number != 6 {
		t.Errorf("number = %d, want 6", number)
	}
	if len(people) != 6 {
		t.Fatalf("expected 6 people, got %d", len(people))
	}
	if people[0].Name != "Alexey Ovchinin" || people[0].Craft != "ISS" {
		t.Errorf("first person = %+v", people[0])
	}

	lines := passes.DescribePeople(number, people)
	if lines[0] != "There are 6 people in space right now." {
		t.Errorf("headcount line = %q", lines[0])
	}
	if len(lines) != 7 {
		t.Errorf("expected 7 lines, got %d", len(lines))
	}
}

func TestFetch_Non200IsFatalAndBodyIsNeverDecoded(t *testing.T) {
	t.Parallel()
	ts := fixtureServer(t)
	client := newTestClient(t, passes.Config{
		PassURL:   ts.URL + "/iss-pass.json",
		AstrosURL: ts.URL + "/gone.json",
	})

	_, _, err := client.PeopleInSpace(context.Background())
	if err == nil {
		t.Fatal("expected an error for a 404 fetch")
	}

	// The fixture body is not valid JSON; a decode attempt would surface a
	// decode error instead of the status error.
	var se *webclient.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", se.StatusCode)
	}
}

func TestUpcomingPasses_MissingFieldIsPathError(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/iss-pass.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message": "success"}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := newTestClient(t, passes.Config{PassURL: ts.URL + "/iss-pass.json"})

	_, err := client.UpcomingPasses(context.Background(), 40.71, -74.0)
	if err == nil {
		t.Fatal("expected an error for the missing response field")
	}
}
