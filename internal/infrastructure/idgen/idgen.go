// Package idgen implements shared.IDGenerator.
package idgen

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/careerhub/placement-hub/internal/domain/shared"
)

// Sequence issues INT0001-style identifiers from per-kind counters.
type Sequence struct {
	mu   sync.Mutex
	last map[shared.IDKind]int
}

// NewSequence creates a sequence starting at 1 for every kind.
func NewSequence() *Sequence {
	return &Sequence{last: make(map[shared.IDKind]int)}
}

// NextID implements shared.IDGenerator.
func (s *Sequence) NextID(kind shared.IDKind) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[kind]++
	return shared.FormatSequenceID(kind, s.last[kind])
}

// Observe advances the counter past an existing identifier so restarts never
// reissue it. Identifiers of other formats are ignored.
func (s *Sequence) Observe(id string) {
	kind, n, ok := ParseSequenceID(id)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.last[kind] {
		s.last[kind] = n
	}
}

// ParseSequenceID splits INT0042 into its kind and number.
func ParseSequenceID(id string) (shared.IDKind, int, bool) {
	if len(id) < 4 {
		return "", 0, false
	}
	kind := shared.IDKind(id[:3])
	if !kind.IsValid() {
		return "", 0, false
	}
	n := 0
	for _, c := range id[3:] {
		if c < '0' || c > '9' {
			return "", 0, false
		}
		n = n*10 + int(c-'0')
	}
	return kind, n, true
}

// UUID issues identifiers of the form INT-<uuid>, safe across processes.
type UUID struct{}

// NextID implements shared.IDGenerator.
func (UUID) NextID(kind shared.IDKind) string {
	return string(kind) + "-" + strings.ToUpper(uuid.NewString())
}

var (
	_ shared.IDGenerator = (*Sequence)(nil)
	_ shared.IDGenerator = UUID{}
)
