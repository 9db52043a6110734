// Package session owns the storefront authentication record: the commerce
// API bearer token and the signed-in user, keyed by an opaque session id
// stored in the browser cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
)

// DefaultTTL applies when the bearer token carries no readable expiry.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound is returned by Store.Get for unknown ids.
var ErrNotFound = errors.New("session not found")

// Record is one signed-in browser session.
type Record struct {
	ID        string
	Token     string
	UserID    string
	Email     string
	Name      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record is no longer usable at now.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Store persists session records.
type Store interface {
	PutSession(ctx context.Context, record Record) error
	GetSession(ctx context.Context, id string) (Record, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (commerce.Auth, error)
}

// Options tune Manager.
type Options struct {
	TTL    time.Duration
	Now    func() time.Time
	NewID  func() string
	Logger logrus.FieldLogger
}

// Manager is the only writer of session records. Init runs once at
// startup; Login and Logout are the only other mutations.
type Manager struct {
	store  Store
	auth   Authenticator
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	logger logrus.FieldLogger
}

// NewManager builds a manager over store and auth.
func NewManager(store Store, auth Authenticator, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Manager{store: store, auth: auth, ttl: opts.TTL, now: opts.Now, newID: opts.NewID, logger: opts.Logger}
}

// Init purges sessions that expired while the process was down.
func (m *Manager) Init(ctx context.Context) error {
	removed, err := m.store.DeleteExpiredSessions(ctx, m.now().UTC())
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	if removed > 0 {
		m.logger.WithField("removed", removed).Info("purged expired sessions")
	}
	return nil
}

// Login authenticates against the commerce API and persists a new record.
func (m *Manager) Login(ctx context.Context, email, password string) (Record, error) {
	auth, err := m.auth.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return Record{}, err
	}
	token := strings.TrimSpace(auth.AccessToken)
	if token == "" {
		return Record{}, errors.New("login response carried no access token")
	}
	now := m.now().UTC()
	record := Record{
		ID:        m.newID(),
		Token:     token,
		UserID:    strconv.Itoa(auth.User.ID),
		Email:     auth.User.Email,
		Name:      auth.User.Name,
		CreatedAt: now,
		ExpiresAt: m.expiry(token, now),
	}
	if err := m.store.PutSession(ctx, record); err != nil {
		return Record{}, fmt.Errorf("store session: %w", err)
	}
	return record, nil
}

// Logout removes the record. Unknown ids are not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if err := m.store.DeleteSession(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Lookup returns the live record for id. Expired records are deleted and
// reported as absent.
func (m *Manager) Lookup(ctx context.Context, id string) (Record, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false, nil
	}
	record, err := m.store.GetSession(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("get session: %w", err)
	}
	if record.Expired(m.now()) {
		if err := m.Logout(ctx, id); err != nil {
			m.logger.WithError(err).Warn("drop expired session")
		}
		return Record{}, false, nil
	}
	return record, true, nil
}

// expiry reads the token's exp claim without verifying the signature; the
// commerce API remains the authority and answers 401 on a bad token.
func (m *Manager) expiry(token string, now time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.After(now) {
			return exp.UTC()
		}
	}
	return now.Add(m.ttl)
}

type recordKey struct{}

// WithRecord attaches the signed-in record to ctx.
func WithRecord(ctx context.Context, record Record) context.Context {
	return context.WithValue(ctx, recordKey{}, record)
}

// FromContext returns the signed-in record, if any.
func FromContext(ctx context.Context) (Record, bool) {
	if ctx == nil {
		return Record{}, false
	}
	record, ok := ctx.Value(recordKey{}).(Record)
	return record, ok
}
