package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Tokens                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	// ErrTokenExpired is returned by Verify when the token's exp has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers every other verification failure.
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenUser is the identity carried inside a bearer token and injected
// into r.Context() by LoadBearerUser.
type TokenUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// Claims is the JWT payload: the user identity plus registered claims.
type Claims struct {
	TokenUser
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	log    *zap.Logger

	now func() time.Time
}

// NewIssuer builds an Issuer. The secret must be non-empty; a short secret is
// accepted but logged.
func NewIssuer(secret, issuer string, ttl time.Duration, logger *zap.Logger) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt expiry must be positive, got %v", ttl)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		log:    logger,
		now:    time.Now,
	}, nil
}

// TTL reports how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for u that expires after the configured TTL.
func (i *Issuer) Issue(u TokenUser) (string, error) {
	now := i.now()
	claims := Claims{
		TokenUser: u,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify parses raw and returns its claims. Only HS256 is accepted.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenInvalid
	}
	if claims.TokenUser.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	tokenErrKey    ctxKey = "tokenErr"
)

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

// LoadBearerUser injects the user into context when the request carries a
// valid "Authorization: Bearer" token. A bad token is remembered so that
// RequireSignedIn can report why, but the request is never rejected here.
func (i *Issuer) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := i.Verify(raw)
		if err != nil {
			r = r.WithContext(context.WithValue(r.Context(), tokenErrKey, err))
			next.ServeHTTP(w, r)
			return
		}
		u := claims.TokenUser
		next.ServeHTTP(w, withUser(r, &u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadBearerUser).
// Otherwise it answers 401 with a reason.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		apperr.Write(w, r, nil, unauthenticated(r))
	})
}

// RequireRole ensures there is a user with one of the allowed user types.
// No user → 401, wrong type → 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	msg := forbiddenMessage(allowed)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				apperr.Write(w, r, nil, unauthenticated(r))
				return
			}
			if _, has := set[strings.ToLower(u.UserType)]; !has {
				apperr.Write(w, r, nil, apperr.Deny(msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects u as the current user. Used by handler tests.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func unauthenticated(r *http.Request) error {
	err, _ := r.Context().Value(tokenErrKey).(error)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return apperr.Unauthorized("Token has expired.")
	case err != nil:
		return apperr.Unauthorized("Invalid token.")
	default:
		return apperr.Unauthorized("Not authenticated.")
	}
}

var roleLabels = map[string]string{
	"player": "players",
	"org":    "organizations",
	"admin":  "admins",
}

func forbiddenMessage(allowed []string) string {
	labels := make([]string, 0, len(allowed))
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if l, ok := roleLabels[a]; ok {
			labels = append(labels, l)
		} else {
			labels = append(labels, a)
		}
	}
	return "Only " + strings.Join(labels, " or ") + " can access this route."
}
