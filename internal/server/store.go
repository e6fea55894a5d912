package server

import (
	"sync"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/assemble"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/batch"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/excel"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/report"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/session"
	"github.com/google/uuid"
)

// Session is one operator's in-memory working set. Everything here is
// batch-scoped: created fresh per run, discarded on reset. Within a
// session all work is sequential; the mutex only fences concurrent
// HTTP access to the same session.
type Session struct {
	ID      string
	Machine session.Machine

	mu       sync.Mutex
	workbook []byte
	sheet    string
	table    *excel.Table
	entries  []assemble.Entry

	generated   *batch.GenerateResult
	emailMap    map[string]string
	emailReport *report.Report
}

// clearResults drops everything produced after load.
func (s *Session) clearResults() {
	s.generated = nil
	s.emailReport = nil
}

// Store holds the live sessions
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new idle session and returns it.
func (st *Store) Create() *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Machine: session.NewLifecycle(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session with the given id, or nil.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}
