package auth

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/directory"
)

// Session data keys
const (
	SessionKeyEditor = "editor"
	SessionKeyVisits = "visits"

	viewKeyPrefix = "view:"
)

// MaxVisitsPerSession bounds how many page visits one browser session keeps.
// Starting another visit evicts the oldest one.
const MaxVisitsPerSession = 8

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// EnsureSessionStore creates the sessions table used by sqlite3store if it
// doesn't exist.
func EnsureSessionStore(sqlDB *sql.DB) error {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	return err
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	if err := EnsureSessionStore(sqlDB); err != nil {
		return nil, err
	}

	sm := scs.New()
	// Expired rows are removed when their token is next looked up; no
	// cleanup goroutine runs.
	sm.Store = sqlite3store.NewWithCleanupInterval(sqlDB, 0)

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 12 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// LoginEditor marks the session as logged in.
// This should be called after password verification.
func (sm *SessionManager) LoginEditor(r *http.Request) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyEditor, true)
	return nil
}

// Logout removes all session data, including open page visits.
func (sm *SessionManager) Logout(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// IsEditor returns true if the session belongs to a logged-in editor.
func (sm *SessionManager) IsEditor(r *http.Request) bool {
	return sm.GetBool(r.Context(), SessionKeyEditor)
}

// SaveView stores the state of one page visit in the session.
func (sm *SessionManager) SaveView(ctx context.Context, v *directory.View) {
	visits, _ := sm.Get(ctx, SessionKeyVisits).([]string)

	kept := make([]string, 0, len(visits)+1)
	for _, id := range visits {
		if id != v.VisitID {
			kept = append(kept, id)
		}
	}
	kept = append(kept, v.VisitID)
	for len(kept) > MaxVisitsPerSession {
		sm.Remove(ctx, viewKeyPrefix+kept[0])
		kept = kept[1:]
	}

	sm.Put(ctx, viewKeyPrefix+v.VisitID, v)
	sm.Put(ctx, SessionKeyVisits, kept)
}

// LoadView returns the stored state of a page visit. ok is false when the
// visit is unknown to this session, for example after it expired.
func (sm *SessionManager) LoadView(ctx context.Context, visitID string) (*directory.View, bool) {
	if visitID == "" {
		return nil, false
	}
	v, ok := sm.Get(ctx, viewKeyPrefix+visitID).(*directory.View)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// PurgeExpiredSessions deletes session rows past their expiry and returns
// how many were removed.
func PurgeExpiredSessions(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	res, err := sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE julianday('now') >= expiry`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
