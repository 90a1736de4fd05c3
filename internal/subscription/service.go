package subscription

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/notify"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/config"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/utils"
)

const (
	EventCheckoutCompleted   = "checkout.completed"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"

	SignatureHeader = "X-Billing-Signature"
)

var (
	ErrNoCustomer   = errors.New("no billing customer for user")
	ErrMissingUser  = errors.New("event does not identify a user")
	ErrUnknownEvent = errors.New("unknown billing event")
)

type Service struct {
	store    Store
	cfg      config.BillingConfig
	notifier notify.Publisher
	now      func() time.Time
	log      *logger.Logger
}

func NewService(store Store, cfg config.BillingConfig, notifier notify.Publisher) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if cfg.PremiumTier == "" {
		cfg.PremiumTier = "premium"
	}
	return &Service{
		store:    store,
		cfg:      cfg,
		notifier: notifier,
		now:      time.Now,
		log:      logger.WithContext("component", "subscription"),
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Check returns the current subscription and reconciles the user's premium
// flag with it. A lapsed period is turned off here.
func (s *Service) Check(ctx context.Context, userID string) (*models.Subscription, error) {
	sub, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub.Subscribed && sub.CurrentPeriodEnd != nil && s.now().After(*sub.CurrentPeriodEnd) {
		sub.Subscribed = false
		if err := s.store.Save(ctx, sub); err != nil {
			return nil, err
		}
		s.log.Info("subscription_expired", "user_id", userID)
	}
	if err := s.store.SetPremium(ctx, userID, sub.Subscribed); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) IsPremium(ctx context.Context, userID string) (bool, error) {
	sub, err := s.Check(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.Subscribed, nil
}

func (s *Service) CreateCheckout(ctx context.Context, userID string) (string, error) {
	id, err := utils.GenerateID(16)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	sessionID := "cs_" + id
	if err := s.store.CreateSession(ctx, sessionID, userID); err != nil {
		return "", err
	}
	s.log.Info("checkout_created", "user_id", userID, "session_id", sessionID)
	return withQuery(s.cfg.CheckoutURL, "session_id", sessionID)
}

func (s *Service) PortalURL(ctx context.Context, userID string) (string, error) {
	sub, err := s.store.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub.CustomerID == "" {
		return "", ErrNoCustomer
	}
	return withQuery(s.cfg.PortalURL, "customer", sub.CustomerID)
}

// HandleEvent applies a verified billing event to the stored subscription.
func (s *Service) HandleEvent(ctx context.Context, ev models.BillingEvent) error {
	userID := ev.UserID
	if ev.Type == EventCheckoutCompleted && ev.SessionID != "" {
		owner, err := s.store.CompleteSession(ctx, ev.SessionID)
		if err != nil {
			return err
		}
		userID = owner
	}
	if userID == "" {
		return ErrMissingUser
	}

	sub, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		sub.Subscribed = true
		sub.Tier = firstNonEmpty(ev.Tier, sub.Tier, s.cfg.PremiumTier)
		sub.CustomerID = firstNonEmpty(ev.CustomerID, sub.CustomerID, "cus_"+userID)
		end := s.now().UTC().Add(s.cfg.PeriodLength)
		if ev.PeriodEnd != nil {
			end = ev.PeriodEnd.UTC()
		}
		sub.CurrentPeriodEnd = &end
	case EventSubscriptionUpdated:
		sub.Subscribed = true
		sub.Tier = firstNonEmpty(ev.Tier, sub.Tier, s.cfg.PremiumTier)
		sub.CustomerID = firstNonEmpty(ev.CustomerID, sub.CustomerID)
		if ev.PeriodEnd != nil {
			end := ev.PeriodEnd.UTC()
			sub.CurrentPeriodEnd = &end
		}
	case EventSubscriptionDeleted:
		sub.Subscribed = false
	default:
		return ErrUnknownEvent
	}

	if err := s.store.Save(ctx, sub); err != nil {
		return err
	}
	if err := s.store.SetPremium(ctx, userID, sub.Subscribed); err != nil {
		return err
	}

	s.log.Info("subscription_changed", "user_id", userID, "event", ev.Type, "subscribed", sub.Subscribed)
	msg := "Your premium subscription is active"
	if !sub.Subscribed {
		msg = "Your premium subscription has ended"
	}
	s.notifier.Publish(userID, notify.EventSubscriptionChanged, msg, sub)
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature accepts either a bare hex digest or one prefixed "sha256=".
// An empty secret verifies nothing.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(Sign(secret, body))
	return hmac.Equal(got, want)
}

func withQuery(base, key, value string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse billing url %q: %w", base, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
