// Package demoserver serves fixture copies of the three endpoints the
// pipelines consume, so demo and parity runs are deterministic and offline.
package demoserver

import (
	"fmt"
	"net/http"
	"sync"
)

// DemoServer is a simple HTTP server standing in for the live endpoints.
type DemoServer struct {
	cfg     Config
	mu      sync.RWMutex
	version int
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	version := cfg.InitialVersion
	if version <= 0 {
		version = 1
	}
	return &DemoServer{cfg: cfg, version: version}
}

// Handler returns the demo server's routes, usable directly with httptest.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/iss-pass.json", s.passHandler)
	mux.HandleFunc("/astros.json", s.astrosHandler)
	mux.HandleFunc("/rankings", s.rankingsHandler)

	// Control endpoints for demoing run diffs
	mux.HandleFunc("/demo/bump", s.bumpHandler)
	mux.HandleFunc("/demo/reset", s.resetHandler)

	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *DemoServer) passHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("lat") == "" || q.Get("lon") == "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "failure", "reason": "latitude and longitude must be specified"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{
	"message": "success",
	"request": {"latitude": %s, "longitude": %s, "passes": 3},
	"response": [
		{"risetime": 1566374728, "duration": 642},
		{"risetime": 1566380552, "duration": 623},
		{"risetime": 1566386365, "duration": 434}
	]
}`, q.Get("lat"), q.Get("lon"))
}

func (s *DemoServer) astrosHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{
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
}`)
}

// rankingsHandler serves the rankings page, quirks included: one malformed
// row and a tied rank pair, matching the documents the extractor is built
// for. United's points move with the version so successive runs diff.
func (s *DemoServer) rankingsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	version := s.version
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html>
<head><title>League Rankings</title></head>
<body>
<div class="intro"><p>Standings after matchday %d.</p></div>
<div class="rankings">
	<table>
		<tr><th>Rank</th><th>Team</th><th>Points</th></tr>
		<tr><td>12</td><td>Harriers</td><td>48</td></tr>
		<tr><td colspan="3">mid-table advertisement</td></tr>
		<tr><td>12</td><td>Rovers</td><td>48</td></tr>
		<tr><td>14</td><td>United</td><td>%d</td></tr>
	</table>
</div>
</body>
</html>`, version, 44+version)
}

func (s *DemoServer) bumpHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.version++
	version := s.version
	s.mu.Unlock()
	fmt.Fprintf(w, `{"version": %d}`, version)
}

func (s *DemoServer) resetHandler(w http.ResponseWriter, r *http.Request) {
	initial := s.cfg.InitialVersion
	if initial <= 0 {
		initial = 1
	}
	s.mu.Lock()
	s.version = initial
	s.mu.Unlock()
	fmt.Fprintf(w, `{"version": %d}`, initial)
}
