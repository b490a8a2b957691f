package chat

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
)

// Service implements the participant registry and message log business rules
// on top of the store.
type Service struct {
	store store.Store
	log   *zerolog.Logger
}

// NewService creates the chat service.
func NewService(st store.Store, logger *zerolog.Logger) *Service {
	return &Service{
		store: st,
		log:   logger,
	}
}

// Register creates a participant and broadcasts its join status event. The
// participant row and the status message are written in one store
// transaction, so two concurrent registrations of the same name cannot both
// succeed.
func (s *Service) Register(ctx context.Context, name string) error {
	if verr := Check(NewParticipant{Name: name}); verr != nil {
		return verr
	}

	now := time.Now()
	p := &store.Participant{Name: name, LastStatus: now}
	joined := &store.Message{
		From: name,
		To:   store.BroadcastTarget,
		Text: store.JoinedText,
		Type: store.TypeStatus,
		Time: now,
	}

	if err := s.store.CreateParticipant(ctx, p, joined); err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			return ErrNameTaken
		}
		return err
	}

	s.log.Info().Str("participant", name).Msg("participant registered")
	return nil
}

// Participants returns every registered participant in store-native order.
func (s *Service) Participants(ctx context.Context) ([]*store.Participant, error) {
	return s.store.ListParticipants(ctx)
}

// Heartbeat refreshes the participant's lastStatus to now.
func (s *Service) Heartbeat(ctx context.Context, name string) error {
	if name == "" {
		return ErrNoIdentity
	}

	if err := s.store.TouchParticipant(ctx, name, time.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownParticipant
		}
		return err
	}

	return nil
}

// Post appends a message from the claimed sender identity. The payload is
// schema-checked first; the sender must name a registered participant.
func (s *Service) Post(ctx context.Context, from string, m NewMessage) error {
	if verr := Check(m); verr != nil {
		return verr
	}

	ok, err := s.exists(ctx, from)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownSender
	}

	msg := &store.Message{
		From: from,
		To:   m.To,
		Text: m.Text,
		Type: m.MessageType(),
		Time: time.Now(),
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return err
	}

	s.log.Debug().Str("from", from).Str("to", m.To).Str("type", m.Type).Msg("message posted")
	return nil
}

// Messages returns up to limit messages visible to the viewer. rawLimit must
// parse as a positive integer.
func (s *Service) Messages(ctx context.Context, viewer, rawLimit string) ([]*store.Message, error) {
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit <= 0 {
		return nil, ErrBadLimit
	}

	return s.store.ListVisibleMessages(ctx, viewer, limit)
}

// exists reports whether a participant with this name is registered.
func (s *Service) exists(ctx context.Context, name string) (bool, error) {
	_, err := s.store.GetParticipantByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
