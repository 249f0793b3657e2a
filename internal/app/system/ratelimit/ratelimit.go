// Package ratelimit throttles sign-in attempts with in-process fixed windows.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter admits at most limit hits per key in each fixed window. Expired
// windows are dropped by a janitor goroutine until Stop is called.
type Limiter struct {
	limit int
	span  time.Duration
	now   func() time.Time

	mu      sync.Mutex
	windows map[string]*window

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	used    int
	resetAt time.Time
}

func New(limit int, span time.Duration) *Limiter {
	l := &Limiter{
		limit:   limit,
		span:    span,
		now:     time.Now,
		windows: map[string]*window{},
		stop:    make(chan struct{}),
	}
	if span > 0 {
		go l.janitor(2 * span)
	}
	return l
}

// live returns key's window, or nil when it has none or it has lapsed.
// Callers hold mu.
func (l *Limiter) live(key string, now time.Time) *window {
	w := l.windows[key]
	if w == nil || now.After(w.resetAt) {
		return nil
	}
	return w
}

// Allow records a hit for key and reports whether it fits in the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w := l.live(key, now)
	if w == nil {
		l.windows[key] = &window{used: 1, resetAt: now.Add(l.span)}
		return true
	}
	if w.used >= l.limit {
		return false
	}
	w.used++
	return true
}

// Remaining is the number of hits key may still make in its window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.live(key, l.now())
	if w == nil {
		return l.limit
	}
	return max(l.limit-w.used, 0)
}

func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
}

// Stop ends the janitor. It may be called more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key := range l.windows {
		if l.live(key, now) == nil {
			delete(l.windows, key)
		}
	}
}

// ClientIP picks the originating address: the first X-Forwarded-For hop,
// then X-Real-IP, then the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

const (
	msgTooManyFromClient = "Too many login attempts. Please wait before trying again."
	msgTooManyForAccount = "Too many login attempts for this account. Please wait before trying again."
)

// LoginLimiter budgets /login per client IP and, at half that rate, per
// email address.
type LoginLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

func NewLoginLimiter(limit int, span time.Duration) *LoginLimiter {
	return &LoginLimiter{
		byIP:    New(limit, span),
		byEmail: New(max(limit/2, 1), span),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check counts one attempt and returns false with a user-facing reason once
// either budget is spent.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false, msgTooManyFromClient
	}
	if key := emailKey(email); key != "" && !ll.byEmail.Allow(key) {
		return false, msgTooManyForAccount
	}
	return true, ""
}

// ResetEmail forgets an account's failures after it signs in.
func (ll *LoginLimiter) ResetEmail(email string) {
	if key := emailKey(email); key != "" {
		ll.byEmail.Reset(key)
	}
}

func (ll *LoginLimiter) Stop() {
	ll.byIP.Stop()
	ll.byEmail.Stop()
}
