package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
)

// MemoryStore is a Store that lives only as long as the process. Values are
// kept as the same bytes SQLStore would persist, so both behave alike.
type MemoryStore struct {
	mu     sync.Mutex
	scopes map[Scope]map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scopes: make(map[Scope]map[string][]byte)}
}

func (m *MemoryStore) get(scope Scope, key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scopes[scope][key]
}

func (m *MemoryStore) set(scope Scope, key string, v []byte) {
	if m.scopes[scope] == nil {
		m.scopes[scope] = make(map[string][]byte)
	}
	m.scopes[scope][key] = v
}

func (m *MemoryStore) Token(_ context.Context, scope Scope) (models.Token, error) {
	return models.Token(m.get(scope, keyToken)), nil
}

func (m *MemoryStore) ActiveToken(ctx context.Context) (models.Token, error) {
	return m.Token(ctx, ScopeActive)
}

func (m *MemoryStore) User(_ context.Context, scope Scope) (*models.User, error) {
	return decodeUser(m.get(scope, keyUser))
}

// Raw returns the stored bytes for a key, or nil.
func (m *MemoryStore) Raw(scope Scope, key string) []byte {
	return m.get(scope, key)
}

// Put stores raw bytes. Intended for seeding state in tests.
func (m *MemoryStore) Put(scope Scope, key string, v []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(scope, key, v)
}

func (m *MemoryStore) Save(_ context.Context, scope Scope, token models.Token, user *models.User) error {
	var b []byte
	if user != nil {
		var err error
		if b, err = encodeUser(user); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(scope, keyToken, []byte(token))
	if b == nil {
		delete(m.scopes[scope], keyUser)
	} else {
		m.set(scope, keyUser, b)
	}
	return nil
}

func (m *MemoryStore) SetUser(_ context.Context, scope Scope, user *models.User) error {
	b, err := encodeUser(user)
	if err != nil {
		return err
	}
	m.Put(scope, keyUser, b)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, scope Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scopes, scope)
	return nil
}

func (m *MemoryStore) Promote(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := m.scopes[ScopePending]
	if len(pending[keyToken]) == 0 {
		return ErrNothingPending
	}
	m.scopes[ScopeActive] = pending
	delete(m.scopes, ScopePending)
	return nil
}

// Len reports how many keys a scope holds.
func (m *MemoryStore) Len(scope Scope) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scopes[scope])
}
