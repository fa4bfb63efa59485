package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	t.Run("Positive", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for a positive rate")
		}
		if limiter.bytesPerSecond != 1024*1024 {
			t.Errorf("bytesPerSecond = %d, want %d", limiter.bytesPerSecond, 1024*1024)
		}
	})

	t.Run("Zero", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil (unlimited)")
		}
	})

	t.Run("Negative", func(t *testing.T) {
		if NewLimiter(-100) != nil {
			t.Error("NewLimiter(-100) should return nil (unlimited)")
		}
	})

	t.Run("MinimumBucket", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter.bucketSize != minBucketSize {
			t.Errorf("bucketSize = %d, want %d", limiter.bucketSize, minBucketSize)
		}
	})
}

func TestNewReaderNilLimiter(t *testing.T) {
	src := strings.NewReader("payload")
	r := NewReader(context.Background(), src, nil)
	if r != io.Reader(src) {
		t.Error("NewReader with nil limiter should return the source unchanged")
	}
}

func TestReaderDeliversAllBytes(t *testing.T) {
	payload := bytes.Repeat([]byte("m"), 256*1024)
	r := NewReader(context.Background(), bytes.NewReader(payload), NewLimiter(10*1024*1024))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("read %d bytes, want %d", len(got), len(payload))
	}
}

func TestReaderThrottles(t *testing.T) {
	// 128KB at 64KB/s: the first bucket is free, the remainder should take
	// roughly a second. Use a loose lower bound to stay robust under load.
	payload := bytes.Repeat([]byte("m"), 128*1024)
	r := NewReader(context.Background(), bytes.NewReader(payload), NewLimiter(64*1024))

	start := time.Now()
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("read finished in %v, expected throttling to at least 500ms", elapsed)
	}
}

func TestReaderContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload := bytes.Repeat([]byte("m"), 512*1024)
	r := NewReader(ctx, bytes.NewReader(payload), NewLimiter(1024))

	// The first read drains the initial bucket; subsequent reads must fail
	// once the context is gone.
	buf := make([]byte, 128*1024)
	var err error
	for i := 0; i < 16; i++ {
		if _, err = r.Read(buf); err != nil {
			break
		}
	}
	if err != context.Canceled {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}
