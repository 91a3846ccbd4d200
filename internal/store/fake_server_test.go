package store_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// docServer is a minimal in-memory json-server used to exercise Remote.
type docServer struct {
	mu   sync.Mutex
	data map[string][]map[string]any
	hits map[string]int
}

func newDocServer(t *testing.T) (*docServer, *httptest.Server) {
	t.Helper()
	s := &docServer{data: map[string][]map[string]any{}, hits: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{c}", s.list)
	mux.HandleFunc("POST /{c}", s.create)
	mux.HandleFunc("GET /{c}/{id}", s.get)
	mux.HandleFunc("PUT /{c}/{id}", s.put)
	mux.HandleFunc("DELETE /{c}/{id}", s.del)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func decode(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var m map[string]any
	err := dec.Decode(&m)
	return m, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *docServer) find(c, id string) int {
	for i, r := range s.data[c] {
		if r["id"] == id {
			return i
		}
	}
	return -1
}

func (s *docServer) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := r.PathValue("c")
	s.hits["GET /"+c]++
	out := []map[string]any{}
	for _, rec := range s.data[c] {
		match := true
		for k, vs := range r.URL.Query() {
			if fmt.Sprint(rec[k]) != vs[0] {
				match = false
			}
		}
		if match {
			out = append(out, rec)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *docServer) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, id := r.PathValue("c"), r.PathValue("id")
	i := s.find(c, id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, s.data[c][i])
}

func (s *docServer) create(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := r.PathValue("c")
	m, err := decode(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.data[c] = append(s.data[c], m)
	writeJSON(w, http.StatusCreated, m)
}

func (s *docServer) put(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, id := r.PathValue("c"), r.PathValue("id")
	i := s.find(c, id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	body, _ := io.ReadAll(r.Body)
	m, err := decode(bytes.NewReader(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m["id"] = id
	s.data[c][i] = m
	writeJSON(w, http.StatusOK, m)
}

func (s *docServer) del(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, id := r.PathValue("c"), r.PathValue("id")
	i := s.find(c, id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	s.data[c] = append(s.data[c][:i], s.data[c][i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{})
}
