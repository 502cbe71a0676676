// Package store is the local persistence layer: a key-value bucket for the
// auth token and role, and an append-only log of submissions. Both live in an
// embedded JetStream server under the configured data directory.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/handyhire/internal/logger"
	"github.com/mark3labs/handyhire/internal/nats"
)

// Event is one entry in the submission log.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`   // booking, registration
	Action    string          `json:"action"` // submitted, failed
	Reference string          `json:"reference,omitempty"`
	Summary   string          `json:"summary"`
	Meta      json.RawMessage `json:"meta,omitempty"`
}

// Store wraps the embedded server and its bucket and stream.
type Store struct {
	nats   *nats.Embedded
	kv     jetstream.KeyValue
	stream jetstream.Stream
}

// Open starts the embedded server in dataDir and prepares the bucket and stream.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	emb, err := nats.Start(dataDir)
	if err != nil {
		return nil, fmt.Errorf("starting local store: %w", err)
	}

	kv, err := nats.SetupKV(ctx, emb.JS)
	if err != nil {
		_ = emb.Close()
		return nil, fmt.Errorf("setting up key-value bucket: %w", err)
	}

	stream, err := nats.SetupStream(ctx, emb.JS)
	if err != nil {
		_ = emb.Close()
		return nil, fmt.Errorf("setting up event stream: %w", err)
	}

	return &Store{nats: emb, kv: kv, stream: stream}, nil
}

// Close shuts the embedded server down.
func (s *Store) Close() error {
	return s.nats.Close()
}

// Get returns the value for key, or "" when it is not set.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return string(entry.Value()), nil
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, key, value string) error {
	if _, err := s.kv.PutString(ctx, key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.kv.Purge(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Record appends an event to the submission log.
func (s *Store) Record(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	ack, err := s.nats.JS.Publish(ctx, nats.SubjectFor(event.Type), data)
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}
	logger.Debug("recorded %s %s event seq=%d", event.Type, event.Action, ack.Sequence)
	return nil
}

// History returns every recorded event, oldest first. Malformed entries are
// skipped.
func (s *Store) History(ctx context.Context) ([]Event, error) {
	consumer, err := s.stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{nats.AllSubjects()},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("creating consumer: %w", err)
	}

	info, err := s.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stream info: %w", err)
	}
	total := int(info.State.Msgs)

	events := make([]Event, 0, total)
	const batchSize = 500
	seen := 0
	for seen < total {
		msgs, err := consumer.Fetch(min(batchSize, total-seen), jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return nil, fmt.Errorf("fetching events: %w", err)
		}

		n := 0
		for msg := range msgs.Messages() {
			n++
			var ev Event
			if err := json.Unmarshal(msg.Data(), &ev); err != nil {
				logger.Warn("skipping malformed event: %v", err)
				continue
			}
			if ev.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					ev.ID = strconv.FormatUint(meta.Sequence.Stream, 10)
				}
			}
			events = append(events, ev)
		}
		if n == 0 {
			if err := msgs.Error(); err != nil {
				logger.Debug("event fetch ended early: %v", err)
			}
			break
		}
		seen += n
	}
	return events, nil
}
