package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
)

var ErrSessionNotFound = errors.New("checkout session not found")

type Store interface {
	Get(ctx context.Context, userID string) (*models.Subscription, error)
	Save(ctx context.Context, sub *models.Subscription) error
	SetPremium(ctx context.Context, userID string, premium bool) error
	CreateSession(ctx context.Context, sessionID, userID string) error
	CompleteSession(ctx context.Context, sessionID string) (string, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get returns the stored subscription, or an unsubscribed one if none exists.
func (s *SQLStore) Get(ctx context.Context, userID string) (*models.Subscription, error) {
	sub := models.Subscription{UserID: userID}
	var end sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT subscribed, tier, current_period_end, customer_id, updated_at FROM subscriptions WHERE user_id = ?`, userID).
		Scan(&sub.Subscribed, &sub.Tier, &end, &sub.CustomerID, &sub.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &sub, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if end.Valid {
		t := end.Time
		sub.CurrentPeriodEnd = &t
	}
	return &sub, nil
}

func (s *SQLStore) Save(ctx context.Context, sub *models.Subscription) error {
	sub.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, subscribed, tier, current_period_end, customer_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			subscribed = excluded.subscribed,
			tier = excluded.tier,
			current_period_end = excluded.current_period_end,
			customer_id = excluded.customer_id,
			updated_at = excluded.updated_at`,
		sub.UserID, sub.Subscribed, sub.Tier, sub.CurrentPeriodEnd, sub.CustomerID, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

func (s *SQLStore) SetPremium(ctx context.Context, userID string, premium bool) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET is_premium = ? WHERE id = ?`, premium, userID); err != nil {
		return fmt.Errorf("set premium flag: %w", err)
	}
	return nil
}

func (s *SQLStore) CreateSession(ctx context.Context, sessionID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkout_sessions (id, user_id, status, created_at) VALUES (?, ?, 'open', ?)`,
		sessionID, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create checkout session: %w", err)
	}
	return nil
}

// CompleteSession marks an open session complete and returns its owner.
func (s *SQLStore) CompleteSession(ctx context.Context, sessionID string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM checkout_sessions WHERE id = ?`, sessionID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load checkout session: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE checkout_sessions SET status = 'complete' WHERE id = ?`, sessionID); err != nil {
		return "", fmt.Errorf("complete checkout session: %w", err)
	}
	return userID, nil
}
