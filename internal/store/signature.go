// Package store holds the console's explicit shared state: fetched
// signatures and the lookup fallback cache.
package store

import (
	"sync"

	"github.com/ahmadqo/campus-console/internal/apiclient"
)

// SignatureStore keeps fetched signature images keyed by user id so
// repeated PDF exports do not refetch them. It is created once and passed
// to whoever needs it.
type SignatureStore struct {
	mu   sync.RWMutex
	sigs map[string]*apiclient.Blob
}

func NewSignatureStore() *SignatureStore {
	return &SignatureStore{sigs: map[string]*apiclient.Blob{}}
}

func (s *SignatureStore) Set(userID string, sig *apiclient.Blob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sigs[userID] = sig
}

func (s *SignatureStore) Get(userID string) (*apiclient.Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.sigs[userID]
	return sig, ok
}

// Clear drops one user's signature, or every signature when userID is "".
func (s *SignatureStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID == "" {
		s.sigs = map[string]*apiclient.Blob{}
		return
	}
	delete(s.sigs, userID)
}

func (s *SignatureStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sigs)
}
