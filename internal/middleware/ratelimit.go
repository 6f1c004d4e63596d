package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"vetly/internal/platform/web"

	"golang.org/x/time/rate"
)

const msgTooManyRequests = "Muitas requisições de uma vez. Tente novamente mais tarde."

type visitor struct {
	// limit 0: el bucket arranca con max tokens y no repone; es la cuota de la ventana
	quota   *rate.Limiter
	resetAt time.Time
}

// RateLimiter: ventana fija por IP. Cada IP tiene max requests por window,
// contada desde su primer request; al vencer la ventana la cuota se renueva.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	max       int
	window    time.Duration
	lastPrune time.Time
	now       func() time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := rl.now()
		ok, resetAt := rl.allow(clientIP(r), now)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(resetAt.Sub(now).Seconds()))))
			web.ErrorMessage(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string, now time.Time) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// visitantes con la ventana vencida no guardan estado útil
	if now.Sub(rl.lastPrune) > rl.window {
		for k, v := range rl.visitors {
			if !now.Before(v.resetAt) {
				delete(rl.visitors, k)
			}
		}
		rl.lastPrune = now
	}

	v, ok := rl.visitors[key]
	if !ok || !now.Before(v.resetAt) {
		v = &visitor{quota: rate.NewLimiter(0, rl.max), resetAt: now.Add(rl.window)}
		rl.visitors[key] = v
	}
	return v.quota.AllowN(now, 1), v.resetAt
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// clientIP usa RemoteAddr (ya reescrito por chimw.RealIP).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
