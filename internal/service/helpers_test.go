package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dmserver/internal/domain"
	"dmserver/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	st := store.New(gdb)
	if err := st.AutoMigrate(); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return st
}

func createUser(t *testing.T, st *store.Store, name, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func createChat(t *testing.T, st *store.Store, a, b domain.UserID) *domain.Chat {
	t.Helper()
	now := time.Now().UTC()
	chat := &domain.Chat{UserAID: a, UserBID: b, CreatedAt: now, UpdatedAt: now}
	if err := st.Chats().Create(context.Background(), chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return chat
}
