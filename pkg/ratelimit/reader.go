// Package ratelimit caps the bandwidth of mod downloads so a large artifact
// fetch does not starve a running server of network throughput.
package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

const minBucketSize = 64 * 1024

// Limiter is a token bucket sized in bytes. A nil Limiter means unlimited.
type Limiter struct {
	bytesPerSecond int64
	bucketSize     int64

	mu         sync.Mutex
	tokens     int64
	lastRefill time.Time
}

// NewLimiter creates a limiter allowing bytesPerSecond of throughput.
// Values <= 0 return nil, which every consumer treats as "no limit".
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucketSize := bytesPerSecond
	if bucketSize < minBucketSize {
		bucketSize = minBucketSize
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucketSize:     bucketSize,
		tokens:         bucketSize,
		lastRefill:     time.Now(),
	}
}

// wait blocks until n tokens are available or the context is cancelled.
func (l *Limiter) wait(ctx context.Context, n int64) error {
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		sleep := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if sleep < time.Millisecond {
			sleep = time.Millisecond
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill must be called with the lock held
func (l *Limiter) refill() {
	now := time.Now()
	added := int64(float64(now.Sub(l.lastRefill)) / float64(time.Second) * float64(l.bytesPerSecond))
	if added <= 0 {
		return
	}
	l.tokens += added
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
	l.lastRefill = now
}

type reader struct {
	ctx     context.Context
	r       io.Reader
	limiter *Limiter
}

// NewReader wraps r so reads never exceed the limiter's rate. A nil limiter
// returns r unchanged.
func NewReader(ctx context.Context, r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &reader{ctx: ctx, r: r, limiter: limiter}
}

func (r *reader) Read(p []byte) (int, error) {
	want := int64(len(p))
	if want > r.limiter.bucketSize {
		want = r.limiter.bucketSize
	}
	if err := r.limiter.wait(r.ctx, want); err != nil {
		return 0, err
	}
	return r.r.Read(p[:want])
}
