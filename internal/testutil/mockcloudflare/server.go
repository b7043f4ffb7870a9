package mockcloudflare

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Server is a mock Cloudflare API server for testing.
// It keeps created records in memory and supports failure injection.
type Server struct {
	srv *httptest.Server

	mu          sync.Mutex
	records     map[string]*Record
	nextID      int
	token       string // expected bearer token; empty accepts anything
	failCreate  bool
	failUpdate  bool
	createCalls int
	updateCalls int
}

// New creates a new mock Cloudflare API server and starts listening.
func New() *Server {
	s := &Server{
		records: make(map[string]*Record),
		nextID:  1,
	}
	s.srv = httptest.NewServer(s.Handler())
	return s
}

// Handler returns the HTTP handler, for running the mock as a standalone
// server outside of tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/tokens/verify", s.handleVerifyToken)
	mux.HandleFunc("POST /zones/{zone}/dns_records", s.handleCreateRecord)
	mux.HandleFunc("PUT /zones/{zone}/dns_records/{record}", s.handleUpdateRecord)
	return mux
}

// URL returns the base URL of the running mock server.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts down the mock server.
func (s *Server) Close() {
	s.srv.Close()
}

// SetToken makes the server require the given bearer token.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// SetFailCreate makes record creation return a server error.
func (s *Server) SetFailCreate(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate = fail
}

// SetFailUpdate makes record updates return a server error.
func (s *Server) SetFailUpdate(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpdate = fail
}

// SeedRecord pre-populates a record and returns its id.
func (s *Server) SeedRecord(zoneID, name, content string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.records[id] = &Record{
		ID:      id,
		Type:    "A",
		Name:    name,
		Content: content,
		TTL:     120,
		ZoneID:  zoneID,
	}
	return id
}

// GetRecord returns a copy of a stored record, or nil.
func (s *Server) GetRecord(id string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// CreateCalls returns how many create requests the server received.
func (s *Server) CreateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls
}

// UpdateCalls returns how many update requests the server received.
func (s *Server) UpdateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCalls
}

// newID must be called with the mutex held.
func (s *Server) newID() string {
	id := fmt.Sprintf("rec-%06d", s.nextID)
	s.nextID++
	return id
}

// authorized must be called with the mutex held.
func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.token
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	_ = json.NewEncoder(w).Encode(env)
}

func writeAPIError(w http.ResponseWriter, status, code int, message string) {
	writeEnvelope(w, status, envelope{
		Success: false,
		Errors:  []apiError{{Code: code, Message: message}},
	})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ok := s.authorized(r)
	s.mu.Unlock()
	if !ok {
		writeAPIError(w, http.StatusUnauthorized, 10000, "Invalid API token")
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Result: map[string]string{"status": "active"}})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++

	if !s.authorized(r) {
		writeAPIError(w, http.StatusUnauthorized, 10000, "Invalid API token")
		return
	}
	if s.failCreate {
		writeAPIError(w, http.StatusInternalServerError, 7000, "Internal error")
		return
	}

	var body recordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, 9000, "Invalid request body")
		return
	}
	if body.Type != "A" || body.Name == "" || body.Content == "" {
		writeAPIError(w, http.StatusBadRequest, 9001, "Invalid record")
		return
	}
	if body.Name != strings.ToLower(body.Name) {
		writeAPIError(w, http.StatusBadRequest, 9002, "Record name must be lowercase")
		return
	}

	record := &Record{
		ID:      s.newID(),
		Type:    body.Type,
		Name:    body.Name,
		Content: body.Content,
		TTL:     body.TTL,
		Proxied: body.Proxied,
		ZoneID:  r.PathValue("zone"),
	}
	s.records[record.ID] = record

	writeEnvelope(w, http.StatusOK, envelope{Success: true, Result: record})
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateCalls++

	if !s.authorized(r) {
		writeAPIError(w, http.StatusUnauthorized, 10000, "Invalid API token")
		return
	}
	if s.failUpdate {
		writeAPIError(w, http.StatusInternalServerError, 7000, "Internal error")
		return
	}

	record, ok := s.records[r.PathValue("record")]
	if !ok || record.ZoneID != r.PathValue("zone") {
		writeAPIError(w, http.StatusNotFound, 81044, "Record does not exist")
		return
	}

	var body recordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, http.StatusBadRequest, 9000, "Invalid request body")
		return
	}

	record.Type = body.Type
	record.Name = body.Name
	record.Content = body.Content
	record.TTL = body.TTL
	record.Proxied = body.Proxied

	writeEnvelope(w, http.StatusOK, envelope{Success: true, Result: record})
}
