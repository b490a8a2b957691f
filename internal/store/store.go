package store

import (
	"context"
	"errors"
	"time"
)

// Reserved protocol values shared by every component that writes messages.
const (
	// BroadcastTarget is the recipient value meaning "all participants".
	BroadcastTarget = "Todos"

	// JoinedText and LeftText are the bodies of server-generated status events.
	JoinedText = "entra na sala..."
	LeftText   = "sai da sala..."
)

// MessageType enumerates the kinds of stored messages.
type MessageType string

const (
	// TypeMessage is a public message visible to everyone.
	TypeMessage MessageType = "message"
	// TypePrivate is a message visible only to sender and recipient.
	TypePrivate MessageType = "private_message"
	// TypeStatus is a server-generated join/leave event.
	TypeStatus MessageType = "status"
)

// Participant is a registered chat identity with a liveness timestamp.
type Participant struct {
	ID         string // UUID
	Name       string
	LastStatus time.Time
}

// Message is an immutable chat or system event record.
type Message struct {
	ID   string // UUID
	From string
	To   string
	Text string
	Type MessageType
	Time time.Time
}

// Sentinel errors returned by store implementations.
var (
	// ErrNameTaken indicates a participant with the same name already exists.
	ErrNameTaken = errors.New("participant name already taken")
	// ErrNotFound indicates the referenced participant does not exist.
	ErrNotFound = errors.New("participant not found")
)

// ParticipantStore handles participant persistence.
type ParticipantStore interface {
	// CreateParticipant inserts a participant and its join status message as a
	// single transaction. Returns ErrNameTaken if the name is already registered.
	CreateParticipant(ctx context.Context, p *Participant, joined *Message) error

	// ListParticipants returns every participant record in store-native order.
	ListParticipants(ctx context.Context) ([]*Participant, error)

	// GetParticipantByName retrieves a participant by name.
	// Returns ErrNotFound if no such participant exists.
	GetParticipantByName(ctx context.Context, name string) (*Participant, error)

	// TouchParticipant sets the participant's lastStatus.
	// Returns ErrNotFound if no such participant exists.
	TouchParticipant(ctx context.Context, name string, lastStatus time.Time) error

	// ListInactiveSince returns participants whose lastStatus is strictly
	// older than cutoff.
	ListInactiveSince(ctx context.Context, cutoff time.Time) ([]*Participant, error)

	// EvictParticipant deletes the participant and inserts its leave status
	// message as a single transaction. The delete is guarded by cutoff: if the
	// participant heartbeated after cutoff the whole transaction is abandoned
	// and evicted is false.
	EvictParticipant(ctx context.Context, name string, cutoff time.Time, left *Message) (evicted bool, err error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage appends a message. The store assigns Message.ID.
	SaveMessage(ctx context.Context, msg *Message) error

	// ListVisibleMessages returns up to limit messages visible to viewer in
	// insertion order: messages addressed to or sent by the viewer, plus all
	// public and status messages.
	ListVisibleMessages(ctx context.Context, viewer string, limit int) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	ParticipantStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
