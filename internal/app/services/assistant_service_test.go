package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/pkg/apperrors"
)

type fakeAIMessageStore struct {
	nextID   int64
	messages []models.AIMessage
}

func (f *fakeAIMessageStore) Create(_ context.Context, msg *models.AIMessage) error {
	f.nextID++
	msg.ID = f.nextID
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeAIMessageStore) ListByUser(_ context.Context, userID int64, limit int) ([]models.AIMessage, error) {
	var out []models.AIMessage
	for _, msg := range f.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeAIMessageStore) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	var kept []models.AIMessage
	var deleted int64
	for _, msg := range f.messages {
		if msg.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	f.messages = kept
	return deleted, nil
}

type fakeAnswerer struct {
	answer string
	err    error
	calls  int
}

func (f *fakeAnswerer) Ask(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func TestAsk(t *testing.T) {
	store := &fakeAIMessageStore{}
	answerer := &fakeAnswerer{answer: "Kütüphane 22:00'de kapanır."}
	svc := NewAssistantService(store, answerer)
	ctx := context.Background()

	msg, err := svc.Ask(ctx, 1, "  Kütüphane kaçta kapanıyor?  ")
	require.NoError(t, err)
	assert.Equal(t, "Kütüphane kaçta kapanıyor?", msg.Question)
	assert.Equal(t, answerer.answer, msg.Answer)
	assert.Len(t, store.messages, 1)
}

func TestAskValidation(t *testing.T) {
	store := &fakeAIMessageStore{}
	answerer := &fakeAnswerer{answer: "ok"}
	svc := NewAssistantService(store, answerer)
	ctx := context.Background()

	_, err := svc.Ask(ctx, 1, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Ask(ctx, 1, strings.Repeat("s", 501))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// The model is never called for invalid questions
	assert.Zero(t, answerer.calls)
}

func TestAskModelFailureStoresNothing(t *testing.T) {
	store := &fakeAIMessageStore{}
	answerer := &fakeAnswerer{err: errors.New("upstream timeout")}
	svc := NewAssistantService(store, answerer)

	_, err := svc.Ask(context.Background(), 1, "Yemekhane menüsü ne?")
	assert.Error(t, err)
	assert.Empty(t, store.messages)
}

func TestHistoryCapAndClear(t *testing.T) {
	store := &fakeAIMessageStore{}
	answerer := &fakeAnswerer{answer: "ok"}
	svc := NewAssistantService(store, answerer)
	ctx := context.Background()

	for i := 0; i < assistantHistoryCap+5; i++ {
		_, err := svc.Ask(ctx, 1, "Bir soru daha")
		require.NoError(t, err)
	}
	_, err := svc.Ask(ctx, 2, "Başka kullanıcı")
	require.NoError(t, err)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, assistantHistoryCap)

	deleted, err := svc.ClearHistory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(assistantHistoryCap+5), deleted)

	history, err = svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Other users' history survives
	other, err := svc.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
