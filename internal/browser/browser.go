package browser

import (
	"context"
	"time"

	"github.com/uxbench/uxbench/internal/page"
)

// Session is the browser surface the journey engine consumes. Each site's
// journey owns exactly one Session; sessions are never shared or reused
// across sites so cookies and history cannot leak between journeys.
type Session interface {
	Navigate(ctx context.Context, url string) error
	URL() string
	Snapshot(ctx context.Context) (*page.RawSnapshot, error)
	Click(ctx context.Context, locator string) error
	Fill(ctx context.Context, locator, value string) error
	ScrollBy(ctx context.Context, dy int) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Config holds browser launch settings
type Config struct {
	Headless      bool
	NavTimeout    time.Duration
	ActionTimeout time.Duration
	UserAgent     string
}

// DefaultConfig returns standard browser settings
func DefaultConfig() Config {
	return Config{
		Headless:      true,
		NavTimeout:    30 * time.Second,
		ActionTimeout: 5 * time.Second,
		UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 UXBench/1.0",
	}
}
