package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store owns the persisted session. It is the single writer of the session
// keys and the single emitter of change signals.
type Store struct {
	kv     KV
	broker Broker
	logger *zap.Logger
}

func NewStore(kv KV, broker Broker, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		broker: broker,
		logger: logger,
	}
}

// Broker returns the broker change signals are published on
func (s *Store) Broker() Broker {
	return s.broker
}

// Write persists all four session values
func (s *Store) Write(ctx context.Context, sess Session) error {
	if err := sess.validate(); err != nil {
		return err
	}

	roles, err := encodeRoles(sess.Roles)
	if err != nil {
		return err
	}

	values := map[string]string{
		KeyToken:    sess.Token,
		KeyRoles:    roles,
		KeyUserID:   sess.UserID,
		KeyUsername: sess.Username,
	}
	if err := s.kv.SetMany(ctx, values); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	s.logger.Debug("Session written",
		zap.String("username", sess.Username),
		zap.String("user_id", sess.UserID),
		zap.String("roles", roles))
	return nil
}

// Read returns the stored session. ok is false unless every key is present
// and the roles value decodes as a sequence.
func (s *Store) Read(ctx context.Context) (Session, bool, error) {
	values := make(map[string]string, len(AllKeys))
	for _, key := range AllKeys {
		v, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return Session{}, false, fmt.Errorf("failed to read session: %w", err)
		}
		if !ok || v == "" {
			return Session{}, false, nil
		}
		values[key] = v
	}

	roles, err := decodeRoles(values[KeyRoles])
	if err != nil {
		s.logger.Warn("Stored roles are unreadable, treating session as absent", zap.Error(err))
		return Session{}, false, nil
	}

	return Session{
		Token:    values[KeyToken],
		UserID:   values[KeyUserID],
		Username: values[KeyUsername],
		Roles:    roles,
	}, true, nil
}

// Token returns the raw stored token without checking the other keys
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	return s.raw(ctx, KeyToken)
}

// UserID returns the raw stored user id without checking the other keys
func (s *Store) UserID(ctx context.Context) (string, bool, error) {
	return s.raw(ctx, KeyUserID)
}

func (s *Store) raw(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, ok && v != "", nil
}

// Clear removes every session key
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, AllKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Debug("Session cleared")
	return nil
}

// Notify emits one change signal
func (s *Store) Notify(ctx context.Context, reason string) error {
	if err := s.broker.Publish(ctx, Signal{Reason: reason}); err != nil {
		return fmt.Errorf("failed to notify session change: %w", err)
	}
	return nil
}
