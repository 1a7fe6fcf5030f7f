package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"dmserver/internal/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	st := New(gdb)
	if err := st.AutoMigrate(); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return st
}

func createUser(t *testing.T, st *Store, name, email string) *domain.User {
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

func TestUserGetByEmailNotFound(t *testing.T) {
	st := setupStore(t)

	if _, err := st.Users().GetByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	st := setupStore(t)
	createUser(t, st, "alice", "alice@x.com")

	u := &domain.User{ID: uuid.New(), Name: "alice2", Email: "alice@x.com", PasswordHash: "x"}
	err := st.Users().Create(context.Background(), u)
	if err == nil {
		t.Fatal("expected duplicate email to fail")
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("expected duplicate-key error, got %v", err)
	}
}

func TestChatPairIsUnordered(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, st, "alice", "alice@x.com")
	bob := createUser(t, st, "bob", "bob@x.com")

	chat := &domain.Chat{UserAID: bob.ID, UserBID: alice.ID, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := st.Chats().Create(ctx, chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}

	got, err := st.Chats().GetByPair(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("lookup {alice,bob}: %v", err)
	}
	if got.ID != chat.ID {
		t.Fatalf("expected chat %s, got %s", chat.ID, got.ID)
	}

	got, err = st.Chats().GetByPair(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("lookup {bob,alice}: %v", err)
	}
	if got.ID != chat.ID {
		t.Fatalf("expected chat %s, got %s", chat.ID, got.ID)
	}
	if got.UserA.ID == uuid.Nil || got.UserB.ID == uuid.Nil {
		t.Fatal("expected participants to be preloaded")
	}
}

func TestChatDuplicatePairRejected(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, st, "alice", "alice@x.com")
	bob := createUser(t, st, "bob", "bob@x.com")

	first := &domain.Chat{UserAID: alice.ID, UserBID: bob.ID}
	if err := st.Chats().Create(ctx, first); err != nil {
		t.Fatalf("create first chat: %v", err)
	}

	// Same pair from the other direction must hit the unique index.
	second := &domain.Chat{UserAID: bob.ID, UserBID: alice.ID}
	err := st.Chats().Create(ctx, second)
	if err == nil {
		t.Fatal("expected second chat for same pair to fail")
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("expected duplicate-key error, got %v", err)
	}
}

func TestMessageListByChatOrder(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, st, "alice", "alice@x.com")
	bob := createUser(t, st, "bob", "bob@x.com")
	chat := &domain.Chat{UserAID: alice.ID, UserBID: bob.ID}
	if err := st.Chats().Create(ctx, chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		msg := &domain.Message{
			ChatID:    chat.ID,
			SenderID:  alice.ID,
			Content:   fmt.Sprintf("msg-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := st.Messages().Create(ctx, msg); err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
	}

	msgs, err := st.Messages().ListByChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.Content != fmt.Sprintf("msg-%d", i) {
			t.Fatalf("wrong order at %d: %s", i, m.Content)
		}
		if m.Sender.Name != "alice" {
			t.Fatalf("expected sender preloaded, got %+v", m.Sender)
		}
	}

	last, err := st.Messages().LastForChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last.Content != "msg-2" {
		t.Fatalf("expected msg-2 last, got %s", last.Content)
	}
}

func TestMessageOrderedIDsBreakTies(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	alice := createUser(t, st, "alice", "alice@x.com")
	bob := createUser(t, st, "bob", "bob@x.com")
	chat := &domain.Chat{UserAID: alice.ID, UserBID: bob.ID}
	if err := st.Chats().Create(ctx, chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}

	// Same timestamp on purpose: UUIDv7 ids keep creation order stable.
	at := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		msg := &domain.Message{ChatID: chat.ID, SenderID: alice.ID, Content: fmt.Sprintf("tie-%d", i), CreatedAt: at}
		if err := st.Messages().Create(ctx, msg); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	msgs, err := st.Messages().ListByChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, m := range msgs {
		if m.Content != fmt.Sprintf("tie-%d", i) {
			t.Fatalf("tie-break order broken at %d: %s", i, m.Content)
		}
	}
}
