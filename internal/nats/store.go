package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName holds the local activity log.
	StreamName = "handyhire_events"
	// BucketName is the key-value bucket for credentials and preferences.
	BucketName = "handyhire_local"

	subjectRoot = "handyhire"

	EventTypeBooking      = "booking"
	EventTypeRegistration = "registration"
)

// SubjectFor returns the subject of an event type, e.g. "handyhire.booking".
func SubjectFor(eventType string) string {
	return fmt.Sprintf("%s.%s", subjectRoot, eventType)
}

// AllSubjects matches every event subject.
func AllSubjects() string {
	return subjectRoot + ".>"
}

// SetupStream creates or updates the activity stream with 180-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{AllSubjects()},
		Storage:  jetstream.FileStorage,
		MaxAge:   180 * 24 * time.Hour,
	})
}

// SetupKV creates or updates the local key-value bucket. Only the latest
// value of each key is kept.
func SetupKV(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	return js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  BucketName,
		History: 1,
		Storage: jetstream.FileStorage,
	})
}
