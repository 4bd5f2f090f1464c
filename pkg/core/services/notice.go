package services

import (
	"sync"
	"time"
)

// NoticeTTL is how long a success or failure message stays visible
const NoticeTTL = 3 * time.Second

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message that clears itself after NoticeTTL
type Notice struct {
	Kind      NoticeKind
	Text      string
	ExpiresAt time.Time
}

func newNotice(kind NoticeKind, text string, now time.Time) Notice {
	return Notice{Kind: kind, Text: text, ExpiresAt: now.Add(NoticeTTL)}
}

// Active reports whether the notice should still be shown
func (n Notice) Active(now time.Time) bool {
	return n.Text != "" && now.Before(n.ExpiresAt)
}

// NoticeBoard holds the latest notice, replacing older ones
type NoticeBoard struct {
	mu     sync.Mutex
	notice Notice
}

func (b *NoticeBoard) Post(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = n
}

// Current returns the latest notice if it has not expired
func (b *NoticeBoard) Current(now time.Time) (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.notice.Active(now) {
		b.notice = Notice{}
		return Notice{}, false
	}
	return b.notice, true
}
