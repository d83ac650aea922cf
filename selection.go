package envmonitor

import "sync"

// Selection holds the most recently predicted parameter subset. The prediction step writes it
// and the graph step reads it. It starts empty and is never cleared.
type Selection struct {
	mu     sync.RWMutex
	params []string
	set    bool
}

func NewSelection() *Selection {
	return &Selection{}
}

// Set overwrites the selection with a copy of params.
func (s *Selection) Set(params []string) {
	dst := make([]string, len(params))
	copy(dst, params)

	s.mu.Lock()
	s.params = dst
	s.set = true
	s.mu.Unlock()
}

// Get returns a copy of the selection and whether it was ever set.
func (s *Selection) Get() ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return nil, false
	}
	dst := make([]string, len(s.params))
	copy(dst, s.params)
	return dst, true
}

// GetOrDefault returns the selection, or def if it was never set.
func (s *Selection) GetOrDefault(def []string) []string {
	if params, ok := s.Get(); ok {
		return params
	}
	dst := make([]string, len(def))
	copy(dst, def)
	return dst
}
