package store

import (
	"context"
	"errors"

	"dmserver/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("store: record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{})
}

// IsDuplicateKey reports whether err is a unique-constraint violation. The
// gorm translation covers drivers opened with TranslateError; the pgconn
// check covers raw postgres errors that bypass it.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
