package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/rfd/internal/logging"
)

// DefaultTimeout bounds one best-effort delivery.
const DefaultTimeout = 10 * time.Second

// BestEffort delivers msg through n and swallows the outcome. Errors and
// panics are logged at warn level. A nil notifier is a no-op. It reports
// whether delivery succeeded, for callers that want to count.
func BestEffort(ctx context.Context, n Notifier, msg Message, timeout time.Duration) (ok bool) {
	if n == nil {
		return false
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Warn("notification panicked", "panic", fmt.Sprint(r), "url", msg.URL)
			ok = false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := n.Notify(ctx, msg); err != nil {
		logging.Warn("notification failed", "err", err, "url", msg.URL)
		return false
	}
	return true
}
