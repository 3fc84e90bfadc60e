package session

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/dmitrijs2005/hirehub/internal/client/repositories/kv"
	"github.com/dmitrijs2005/hirehub/internal/dbx"
)

// SQLStore is the persistent Store backed by the kv repository.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) repo(db dbx.DBTX) kv.Repository {
	return kv.NewSQLiteRepository(db)
}

func (s *SQLStore) Token(ctx context.Context, scope Scope) (models.Token, error) {
	v, err := s.repo(s.db).Get(ctx, string(scope), keyToken)
	if err != nil {
		return "", err
	}
	return models.Token(v), nil
}

func (s *SQLStore) ActiveToken(ctx context.Context) (models.Token, error) {
	return s.Token(ctx, ScopeActive)
}

func (s *SQLStore) User(ctx context.Context, scope Scope) (*models.User, error) {
	v, err := s.repo(s.db).Get(ctx, string(scope), keyUser)
	if err != nil {
		return nil, err
	}
	return decodeUser(v)
}

// Save writes token and user together; a nil user removes the cached one.
func (s *SQLStore) Save(ctx context.Context, scope Scope, token models.Token, user *models.User) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return save(ctx, s.repo(tx), scope, token, user)
	})
}

func (s *SQLStore) SetUser(ctx context.Context, scope Scope, user *models.User) error {
	b, err := encodeUser(user)
	if err != nil {
		return err
	}
	return s.repo(s.db).Set(ctx, string(scope), keyUser, b)
}

func (s *SQLStore) Clear(ctx context.Context, scope Scope) error {
	return s.repo(s.db).Clear(ctx, string(scope))
}

// Promote moves the pending registration into the active scope in one
// transaction. It fails with ErrNothingPending when there is no pending token.
func (s *SQLStore) Promote(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		pending, err := repo.List(ctx, string(ScopePending))
		if err != nil {
			return err
		}
		if len(pending[keyToken]) == 0 {
			return ErrNothingPending
		}

		// the active scope is replaced by the pending one as a whole
		if err := repo.Clear(ctx, string(ScopeActive)); err != nil {
			return err
		}
		for key, value := range pending {
			if err := repo.Set(ctx, string(ScopeActive), key, value); err != nil {
				return err
			}
		}
		return repo.Clear(ctx, string(ScopePending))
	})
}

func save(ctx context.Context, repo kv.Repository, scope Scope, token models.Token, user *models.User) error {
	if err := repo.Set(ctx, string(scope), keyToken, []byte(token)); err != nil {
		return err
	}
	if user == nil {
		return repo.Delete(ctx, string(scope), keyUser)
	}
	b, err := encodeUser(user)
	if err != nil {
		return err
	}
	return repo.Set(ctx, string(scope), keyUser, b)
}
