package scalelitemock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"scalectl/internal/signer"
)

// APIPath is the path prefix the fake serves the management API under.
const APIPath = "/scalelite/api"

// Server is a fake Scalelite management API backed by httptest.
type Server struct {
	secret string
	srv    *httptest.Server

	mu       sync.Mutex
	servers  map[string]*Record
	calls    []Call
	failures map[string]failure

	// EmptyListStatus is the status returned by getServers when no server
	// is registered. Defaults to 404, which is what Scalelite answers.
	EmptyListStatus int
}

// NewServer starts a fake API that accepts requests signed with secret.
// The server is closed when the test ends.
func NewServer(t testing.TB, secret string) *Server {
	t.Helper()

	s := &Server{
		secret:          secret,
		servers:         make(map[string]*Record),
		failures:        make(map[string]failure),
		EmptyListStatus: http.StatusNotFound,
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API root to configure the client with.
func (s *Server) URL() string {
	return s.srv.URL + APIPath
}

// HTTPClient returns the client of the underlying httptest server.
func (s *Server) HTTPClient() *http.Client {
	return s.srv.Client()
}

// Seed registers servers directly, bypassing the API.
func (s *Server) Seed(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		rec := r
		if rec.State == "" {
			rec.State = "disabled"
		}
		if rec.LoadMultiplier == "" {
			rec.LoadMultiplier = "1.0"
		}
		if rec.Online == "" {
			rec.Online = "online"
		}
		s.servers[rec.ID] = &rec
	}
}

// LoadFixture seeds servers from a YAML fixture file.
func (s *Server) LoadFixture(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	s.Seed(fixture.Servers...)
	return nil
}

// Get returns a copy of the stored server, or false.
func (s *Server) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.servers[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len returns the number of registered servers.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.servers)
}

// FailNext makes the next call to endpoint answer with status and body.
func (s *Server) FailNext(endpoint string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = failure{status: status, body: body}
}

// Calls returns all requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// WriteCalls returns the POST requests received so far.
func (s *Server) WriteCalls() []Call {
	var writes []Call
	for _, c := range s.Calls() {
		if c.Method == http.MethodPost {
			writes = append(writes, c)
		}
	}
	return writes
}

// ResetCalls forgets the recorded calls.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, APIPath+"/") {
		http.NotFound(w, r)
		return
	}
	endpoint := signer.Endpoint(r.URL.EscapedPath())

	call := Call{
		Method:    r.Method,
		Endpoint:  endpoint,
		RequestID: r.Header.Get("X-Request-Id"),
	}
	if r.Method == http.MethodPost {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &call.Body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
				return
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)

	if !s.validChecksum(endpoint, r.URL.RawQuery) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "checksum error"})
		return
	}

	if f, ok := s.failures[endpoint]; ok {
		delete(s.failures, endpoint)
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
		return
	}

	switch {
	case endpoint == "getServers" && r.Method == http.MethodGet:
		s.getServers(w)
	case endpoint == "addServer" && r.Method == http.MethodPost:
		s.addServer(w, call.Body)
	case endpoint == "updateServer" && r.Method == http.MethodPost:
		s.updateServer(w, call.Body)
	case endpoint == "deleteServer" && r.Method == http.MethodPost:
		s.deleteServer(w, call.Body)
	case endpoint == "panicServer" && r.Method == http.MethodPost:
		s.panicServer(w, call.Body)
	default:
		http.NotFound(w, r)
	}
}

// validChecksum checks the trailing checksum parameter against the rest of
// the raw query.
func (s *Server) validChecksum(endpoint, rawQuery string) bool {
	idx := strings.LastIndex(rawQuery, signer.ChecksumParam+"=")
	if idx < 0 {
		return false
	}
	got := rawQuery[idx+len(signer.ChecksumParam)+1:]
	query := strings.TrimSuffix(rawQuery[:idx], "&")
	return got == signer.Checksum(endpoint, query, s.secret)
}

func (s *Server) getServers(w http.ResponseWriter) {
	if len(s.servers) == 0 && s.EmptyListStatus != http.StatusOK {
		writeJSON(w, s.EmptyListStatus, map[string]string{"error": "no servers"})
		return
	}

	ids := make([]string, 0, len(s.servers))
	for id := range s.servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	list := make([]Record, 0, len(ids))
	for _, id := range ids {
		list = append(list, *s.servers[id])
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) addServer(w http.ResponseWriter, body map[string]interface{}) {
	spec, _ := body["server"].(map[string]interface{})
	rawURL, _ := spec["url"].(string)
	secret, _ := spec["secret"].(string)

	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil || u.Hostname() == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid server url"})
		return
	}
	if secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "secret is required"})
		return
	}

	id := strings.ToLower(u.Hostname())
	if _, exists := s.servers[id]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "server already exists"})
		return
	}

	rec := &Record{
		ID:             id,
		URL:            rawURL,
		Secret:         secret,
		State:          "disabled",
		LoadMultiplier: "1.0",
		Online:         "offline",
	}
	if lm, ok := spec["load_multiplier"].(float64); ok {
		rec.LoadMultiplier = formatMultiplier(lm)
	}
	s.servers[id] = rec
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) updateServer(w http.ResponseWriter, body map[string]interface{}) {
	rec, ok := s.lookup(w, body)
	if !ok {
		return
	}

	patch, _ := body["server"].(map[string]interface{})
	if verb, ok := patch["state"].(string); ok {
		switch verb {
		case "enable":
			rec.State = "enabled"
		case "disable":
			rec.State = "disabled"
		case "cordon":
			rec.State = "cordoned"
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid state " + verb})
			return
		}
	}
	if secret, ok := patch["secret"].(string); ok {
		rec.Secret = secret
	}
	if lm, ok := patch["load_multiplier"].(float64); ok {
		rec.LoadMultiplier = formatMultiplier(lm)
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteServer(w http.ResponseWriter, body map[string]interface{}) {
	rec, ok := s.lookup(w, body)
	if !ok {
		return
	}
	delete(s.servers, rec.ID)
	writeJSON(w, http.StatusOK, map[string]string{"success": fmt.Sprintf("Server id=%s was destroyed", rec.ID)})
}

func (s *Server) panicServer(w http.ResponseWriter, body map[string]interface{}) {
	rec, ok := s.lookup(w, body)
	if !ok {
		return
	}
	rec.State = "disabled"
	writeJSON(w, http.StatusOK, map[string]string{"success": fmt.Sprintf("Server id=%s was panicked", rec.ID)})
}

func (s *Server) lookup(w http.ResponseWriter, body map[string]interface{}) (*Record, bool) {
	id, _ := body["id"].(string)
	rec, ok := s.servers[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "server not found"})
		return nil, false
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func formatMultiplier(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
