package auth

import (
	"context"

	"go.uber.org/zap"

	"user-console/internal/adapter/session"
	"user-console/pkg/logger"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Outcome is the decision of the gate for one protected view.
// Exactly one of View and Redirect is set.
type Outcome struct {
	View     string
	Redirect string
}

// Allowed reports whether the view may render.
func (o Outcome) Allowed() bool {
	return o.Redirect == ""
}

// Gate decides whether a protected view may render, based solely on the
// presence of a token in the session.
type Gate struct {
	log *zap.Logger
}

// NewGate creates a new auth gate.
func NewGate(log *zap.Logger) *Gate {
	return &Gate{log: log}
}

// IsAuthenticated reports whether sess holds a token. A store failure is
// logged and treated as absence.
func (g *Gate) IsAuthenticated(ctx context.Context, sess *session.Session) bool {
	if sess == nil {
		return false
	}
	_, ok, err := sess.Token(ctx)
	if err != nil {
		logger.WithContext(ctx, g.log).Warn("session store unavailable, treating session as anonymous", zap.Error(err))
		return false
	}
	return ok
}

// Protect returns the view when authenticated, otherwise a redirect to the login view.
func (g *Gate) Protect(ctx context.Context, sess *session.Session, view string) Outcome {
	if g.IsAuthenticated(ctx, sess) {
		return Outcome{View: view}
	}
	return Outcome{Redirect: LoginPath}
}
