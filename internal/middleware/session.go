package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	SessionCookie      = "fraudwatch_session"
	sessionLoggedInKey = "logged_in"
	sessionUserKey     = "username"
)

// NewSessionStore keeps admin sessions server-side; the cookie only
// carries the session id.
func NewSessionStore(cfg *config.Config) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// LoggedIn reports whether the request carries an active admin session.
func LoggedIn(store *session.Store, c *fiber.Ctx) bool {
	sess, err := store.Get(c)
	if err != nil {
		slog.Warn("session lookup failed", "path", c.Path(), "error", err)
		return false
	}
	ok, _ := sess.Get(sessionLoggedInKey).(bool)
	return ok
}

// StartSession marks the session as belonging to the admin.
func StartSession(store *session.Store, c *fiber.Ctx, username string) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	// New id on login so a pre-login session id cannot be reused.
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionLoggedInKey, true)
	sess.Set(sessionUserKey, username)
	return sess.Save()
}

// EndSession clears all session state.
func EndSession(store *session.Store, c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
