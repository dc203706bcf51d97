package builder

import (
	"context"
	"sync"
	"time"
)

// NoticeLevel classifies user-facing messages.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message surfaced to the person using the builder.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// Notifier delivers notices to the active front-end.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, notice Notice)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, notice Notice) {
	f(ctx, notice)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notice) {}

const defaultNoticeCapacity = 20

// NoticeLog keeps the most recent notices so front-ends can poll them.
type NoticeLog struct {
	mu       sync.Mutex
	capacity int
	notices  []Notice
}

// NewNoticeLog builds a log holding at most capacity notices.
func NewNoticeLog(capacity int) *NoticeLog {
	if capacity <= 0 {
		capacity = defaultNoticeCapacity
	}
	return &NoticeLog{capacity: capacity}
}

// Notify appends the notice, evicting the oldest entry when full.
func (l *NoticeLog) Notify(_ context.Context, notice Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, notice)
	if over := len(l.notices) - l.capacity; over > 0 {
		l.notices = append([]Notice(nil), l.notices[over:]...)
	}
}

// Recent returns the stored notices, oldest first.
func (l *NoticeLog) Recent() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notice(nil), l.notices...)
}

// Drain returns the stored notices and empties the log.
func (l *NoticeLog) Drain() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.notices
	l.notices = nil
	return out
}

// MultiNotifier fans a notice out to several notifiers.
type MultiNotifier []Notifier

// Notify forwards the notice to every non-nil notifier.
func (m MultiNotifier) Notify(ctx context.Context, notice Notice) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, notice)
		}
	}
}
