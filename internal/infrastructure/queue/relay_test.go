package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usuarios/users-service/internal/core/domain"
)

type fakeOutbox struct {
	pending   []domain.Envelope
	published map[string]bool
	failures  map[string]error
	fetchErr  error
	markErr   error
}

func newFakeOutbox(pending ...domain.Envelope) *fakeOutbox {
	return &fakeOutbox{
		pending:   pending,
		published: make(map[string]bool),
		failures:  make(map[string]error),
	}
}

func (f *fakeOutbox) FetchPending(_ context.Context, limit int) ([]domain.Envelope, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]domain.Envelope, 0, limit)
	for _, env := range f.pending {
		if f.published[env.EventID] {
			continue
		}
		out = append(out, env)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, eventID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.published[eventID] = true
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, eventID string, cause error) error {
	f.failures[eventID] = cause
	return nil
}

type fakePublisher struct {
	published []domain.Envelope
	failFor   map[string]error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{failFor: make(map[string]error)}
}

func (f *fakePublisher) Publish(_ context.Context, env domain.Envelope) error {
	if err, ok := f.failFor[env.EventID]; ok {
		return err
	}
	f.published = append(f.published, env)
	return nil
}

func testEnvelope(id string, eventType domain.EventType) domain.Envelope {
	return domain.Envelope{
		EventID:    id,
		EventType:  eventType,
		OccurredOn: time.Now().UTC(),
		Payload:    []byte(`{}`),
	}
}

func TestDrainPublishesAndMarks(t *testing.T) {
	outbox := newFakeOutbox(
		testEnvelope("ev-1", domain.EventUserCreated),
		testEnvelope("ev-2", domain.EventUserUpdated),
	)
	publisher := newFakePublisher()
	relay := NewRelay(outbox, publisher, time.Second, 100, zerolog.Nop())

	n, err := relay.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, publisher.published, 2)
	assert.True(t, outbox.published["ev-1"])
	assert.True(t, outbox.published["ev-2"])
}

func TestDrainSkipsFailedEntryAndRetriesNextTick(t *testing.T) {
	outbox := newFakeOutbox(
		testEnvelope("ev-1", domain.EventUserCreated),
		testEnvelope("ev-2", domain.EventUserUpdated),
	)
	publisher := newFakePublisher()
	publisher.failFor["ev-1"] = errors.New("broker unavailable")
	relay := NewRelay(outbox, publisher, time.Second, 100, zerolog.Nop())

	n, err := relay.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failing entry must not block the batch")
	assert.False(t, outbox.published["ev-1"])
	assert.True(t, outbox.published["ev-2"])
	assert.Error(t, outbox.failures["ev-1"])

	// Broker recovers; the next drain picks the entry back up.
	delete(publisher.failFor, "ev-1")
	n, err = relay.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, outbox.published["ev-1"])
}

func TestDrainRespectsBatchSize(t *testing.T) {
	outbox := newFakeOutbox(
		testEnvelope("ev-1", domain.EventUserCreated),
		testEnvelope("ev-2", domain.EventUserCreated),
		testEnvelope("ev-3", domain.EventUserCreated),
	)
	publisher := newFakePublisher()
	relay := NewRelay(outbox, publisher, time.Second, 2, zerolog.Nop())

	n, err := relay.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = relay.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDrainFetchError(t *testing.T) {
	outbox := newFakeOutbox()
	outbox.fetchErr = errors.New("write store down")
	relay := NewRelay(outbox, newFakePublisher(), time.Second, 100, zerolog.Nop())

	_, err := relay.Drain(context.Background())
	assert.Error(t, err)
}

func TestDrainToleratesMarkPublishedFailure(t *testing.T) {
	outbox := newFakeOutbox(testEnvelope("ev-1", domain.EventUserCreated))
	outbox.markErr = errors.New("write store down")
	publisher := newFakePublisher()
	relay := NewRelay(outbox, publisher, time.Second, 100, zerolog.Nop())

	n, err := relay.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "unmarked entry does not count as drained")
	assert.Len(t, publisher.published, 1, "event still went to the transport")
}
