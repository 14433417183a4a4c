// Package dedup enforces at-most-once processing of post identifiers
// and binary payloads across a scraping run.
package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// ContentHash is the dedup key for binary payloads: two downloads with
// the same bytes are the same content regardless of URL or filename.
func ContentHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Set is an in-memory seen-set safe for concurrent workers. It grows
// without bound for the lifetime of one run.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

func (s *Set) Seen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

func (s *Set) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = struct{}{}
}

// CheckAndMark marks id as seen and reports whether it had been seen
// before, as one atomic operation. Two workers racing on the same id
// are guaranteed that exactly one of them observes false.
func (s *Set) CheckAndMark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	if !ok {
		s.seen[id] = struct{}{}
	}
	return ok
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Members snapshots the current contents, e.g. for persisting the set
// at the end of a run. Order is unspecified.
func (s *Set) Members() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := make([]string, 0, len(s.seen))
	for id := range s.seen {
		members = append(members, id)
	}
	return members
}
