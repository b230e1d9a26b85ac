package watchlist

import (
	"regexp"
	"strings"
	"sync"

	"stock-digest/src/interfaces"
	"stock-digest/src/logger"
)

// Ticker grammar: uppercase alphanumerics plus '.' and '-', 1-10 chars.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// -----------------------------------------------------------------------------

// Store owns the authoritative symbol list. Writes go through to the active
// backend; when the durable backend is active, reads refresh from it first.
// Single-process ownership is assumed: there is no cache invalidation and
// concurrent writers are not supported.
type Store struct {
	mu       sync.RWMutex
	symbols  []string
	backend  interfaces.ISymbolBackend
	fallback interfaces.ISymbolBackend
	durable  bool
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

// NewStore initializes the store from the active backend. When the durable
// backend is active but holds no prior state, it is seeded from the seed list
// (local file or defaults).
func NewStore(backend, fallback interfaces.ISymbolBackend, durable bool, seed []string, log *logger.Logger) *Store {
	s := &Store{
		backend:  backend,
		fallback: fallback,
		durable:  durable,
		symbols:  normalizeAll(seed),
		Logger:   log,
	}

	persisted, found, err := backend.LoadSymbols()
	switch {
	case err != nil:
		log.Warning("Failed to load symbols from %s backend: %v", backend.Name(), err)
	case found:
		s.symbols = normalizeAll(persisted)
		log.Info("Loaded %d symbols from %s backend", len(s.symbols), backend.Name())
	case durable:
		if err := backend.SaveSymbols(s.symbols); err != nil {
			log.Warning("Failed to seed %s backend: %v", backend.Name(), err)
		} else {
			log.Info("Seeded %s backend with %d symbols", backend.Name(), len(s.symbols))
		}
	}

	return s
}

// -----------------------------------------------------------------------------

// Normalize uppercases and trims a raw symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Validate is a pure predicate over the ticker grammar.
func Validate(symbol string) bool {
	return symbolPattern.MatchString(Normalize(symbol))
}

// -----------------------------------------------------------------------------

func normalizeAll(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, raw := range symbols {
		sym := Normalize(raw)
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// -----------------------------------------------------------------------------

// List returns the current symbols. The durable backend is the source of
// truth when connected, so refresh from it first.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()
	return append([]string(nil), s.symbols...)
}

// Count returns the number of tracked symbols without a backend refresh.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.symbols)
}

// -----------------------------------------------------------------------------

// refreshLocked re-reads the durable backend. A backend error is non-fatal:
// the in-memory copy stands in for this operation.
func (s *Store) refreshLocked() {
	if !s.durable {
		return
	}
	persisted, found, err := s.backend.LoadSymbols()
	if err != nil {
		s.Logger.Warning("Error reading from %s backend: %v", s.backend.Name(), err)
		return
	}
	if found {
		s.symbols = normalizeAll(persisted)
	}
}

// -----------------------------------------------------------------------------

// Add appends a symbol if valid and absent, then persists.
func (s *Store) Add(symbol string) ([]string, error) {
	sym := Normalize(symbol)
	if !symbolPattern.MatchString(sym) {
		return nil, &InvalidSymbolError{Symbols: []string{symbol}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()
	for _, existing := range s.symbols {
		if existing == sym {
			return nil, &DuplicateSymbolError{Symbol: sym}
		}
	}

	s.symbols = append(s.symbols, sym)
	s.persistLocked()
	return append([]string(nil), s.symbols...), nil
}

// -----------------------------------------------------------------------------

// Remove deletes a symbol if present, then persists.
func (s *Store) Remove(symbol string) ([]string, error) {
	sym := Normalize(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()
	idx := -1
	for i, existing := range s.symbols {
		if existing == sym {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &NotFoundError{Symbol: sym}
	}

	s.symbols = append(s.symbols[:idx], s.symbols[idx+1:]...)
	s.persistLocked()
	return append([]string(nil), s.symbols...), nil
}

// -----------------------------------------------------------------------------

// Replace overwrites the whole list. Every element is validated first and all
// invalid entries are reported together; on any failure the prior list is
// left untouched. The validated, deduplicated list is persisted verbatim,
// including empty.
func (s *Store) Replace(symbols []string) ([]string, error) {
	var invalid []string
	for _, raw := range symbols {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if !symbolPattern.MatchString(Normalize(raw)) {
			invalid = append(invalid, raw)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidSymbolError{Symbols: invalid}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.symbols = normalizeAll(symbols)
	s.persistLocked()
	return append([]string(nil), s.symbols...), nil
}

// -----------------------------------------------------------------------------

// persistLocked writes through to the active backend. A durable-backend
// failure degrades to the fallback for this write; it never fails the
// mutation that already happened in memory.
func (s *Store) persistLocked() {
	snapshot := append([]string(nil), s.symbols...)

	if err := s.backend.SaveSymbols(snapshot); err != nil {
		s.Logger.Error("Failed to save symbols to %s backend: %v", s.backend.Name(), err)
		if s.fallback != nil {
			if err := s.fallback.SaveSymbols(snapshot); err != nil {
				s.Logger.Error("Fallback save to %s failed: %v", s.fallback.Name(), err)
			} else {
				s.Logger.Warning("Symbols saved to %s fallback", s.fallback.Name())
			}
		}
	}
}
