package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/dmitrijs2005/hirehub/internal/client/notify"
	"github.com/dmitrijs2005/hirehub/internal/logging"
)

const MsgMarkReadFailed = "Failed to mark as read"

// NotificationsAPI is the part of client.API the panel needs.
type NotificationsAPI interface {
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id models.ID) error
}

// UserSource publishes the current user. AuthService implements it.
type UserSource interface {
	Subscribe(fn func(*models.User)) (unsubscribe func())
	CurrentUser() *models.User
	Ready() <-chan struct{}
}

// NotificationPanel holds a local copy of the current user's notifications.
//
// Fetch replaces the list wholesale and never reports an error; a failed
// fetch leaves an empty list. MarkRead flips one record only after the
// backend confirmed it. Each fetch is numbered: its answer is dropped when a
// newer fetch was started or a MarkRead succeeded in the meantime, so a
// stale list never overwrites a confirmed read flag.
type NotificationPanel struct {
	api    NotificationsAPI
	notice notify.Notifier
	log    logging.Logger

	mu       sync.Mutex
	items    []models.Notification
	loading  bool
	open     bool
	seq      uint64 // last fetch started
	version  uint64 // bumped by every local mutation
	detached bool

	src    UserSource
	owner  string // userKey of the user the list belongs to
	live   bool
	unsub   func()
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewNotificationPanel(api NotificationsAPI, n notify.Notifier, log logging.Logger) *NotificationPanel {
	if n == nil {
		n = notify.Nop()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &NotificationPanel{api: api, notice: n, log: log, items: []models.Notification{}}
}

// Items returns a copy of the current list in backend order.
func (p *NotificationPanel) Items() []models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

func (p *NotificationPanel) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return models.CountUnread(p.items)
}

func (p *NotificationPanel) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *NotificationPanel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *NotificationPanel) Open()  { p.setOpen(true) }
func (p *NotificationPanel) Close() { p.setOpen(false) }

func (p *NotificationPanel) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = !p.open
	return p.open
}

// HandlePointer reacts to a pointer interaction. Anything outside the
// panel closes it.
func (p *NotificationPanel) HandlePointer(inside bool) {
	if !inside {
		p.Close()
	}
}

func (p *NotificationPanel) setOpen(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = v
}

// Fetch reloads the list. With an attached user source and nobody signed
// in, it only empties the list.
func (p *NotificationPanel) Fetch(ctx context.Context) {
	p.mu.Lock()
	src := p.src
	p.mu.Unlock()
	signedOut := src != nil && src.CurrentUser() == nil

	p.mu.Lock()
	if p.detached {
		p.mu.Unlock()
		return
	}
	if signedOut {
		p.items = []models.Notification{}
		p.loading = false
		p.seq++
		p.mu.Unlock()
		return
	}
	p.seq++
	seq, version := p.seq, p.version
	p.loading = true
	p.mu.Unlock()

	list, err := p.api.Notifications(ctx)
	if err != nil {
		p.log.Warn(ctx, "fetching notifications failed", "error", err)
		list = []models.Notification{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detached || seq != p.seq {
		return
	}
	p.loading = false
	if version != p.version {
		p.log.Debug(ctx, "discarding notification list fetched before a local change", "seq", seq)
		return
	}
	p.items = list
}

// MarkRead asks the backend to mark id read and, once confirmed, flips
// that record locally. On failure a notice is shown and nothing changes.
func (p *NotificationPanel) MarkRead(ctx context.Context, id models.ID) error {
	if err := p.api.MarkNotificationRead(ctx, id); err != nil {
		p.log.Warn(ctx, "marking notification read failed", "id", id.String(), "error", err)
		p.notice.Error(MsgMarkReadFailed)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detached {
		return nil
	}
	for i := range p.items {
		if p.items[i].ID.String() == id.String() {
			p.items[i].Read = true
		}
	}
	p.version++
	return nil
}

// Attach follows src: once src is ready, the list is fetched every time a
// different user signs in and dropped when the user goes away. A republish
// of the same account keeps the list. Background fetches run
// under ctx until Detach.
func (p *NotificationPanel) Attach(ctx context.Context, src UserSource) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.src = src
	p.cancel = cancel
	p.mu.Unlock()

	unsub := src.Subscribe(func(u *models.User) { p.onUser(ctx, u) })

	p.mu.Lock()
	p.unsub = unsub
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case <-src.Ready():
		case <-ctx.Done():
			return
		}

		p.mu.Lock()
		if p.detached {
			p.mu.Unlock()
			return
		}
		p.live = true
		p.mu.Unlock()

		// A publish racing with this read is handled by onUser; owner keeps
		// the two paths from fetching twice.
		key := userKey(src.CurrentUser())

		p.mu.Lock()
		fetch := key != "" && p.owner == "" && !p.detached
		if fetch {
			p.owner = key
		}
		p.mu.Unlock()

		if fetch {
			p.Fetch(ctx)
		}
	}()
}

func (p *NotificationPanel) onUser(ctx context.Context, u *models.User) {
	key := userKey(u)

	p.mu.Lock()
	if !p.live || p.detached || key == p.owner {
		p.mu.Unlock()
		return
	}
	prev := p.owner
	p.owner = key

	if prev != "" {
		// the list belongs to someone else now; in-flight answers for the
		// previous user must not land
		p.items = []models.Notification{}
		p.loading = false
		p.seq++
		if key == "" {
			p.open = false
		}
	}
	if key == "" {
		p.mu.Unlock()
		return
	}

	p.wg.Add(1)
	p.mu.Unlock()
	go func() {
		defer p.wg.Done()
		p.Fetch(ctx)
	}()
}

// userKey identifies the account behind u; "" means nobody.
func userKey(u *models.User) string {
	switch {
	case u == nil:
		return ""
	case !u.ID.IsZero():
		return "id:" + u.ID.String()
	default:
		return "email:" + u.Email
	}
}

// Poll refreshes the list every interval while a user is signed in, until
// ctx is done. A non-positive interval disables polling.
func (p *NotificationPanel) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			skip := p.detached || (p.src != nil && p.owner == "")
			p.mu.Unlock()
			if skip {
				continue
			}

			fctx, cancel := context.WithTimeout(ctx, interval)
			p.Fetch(fctx)
			cancel()

		case <-ctx.Done():
			return
		}
	}
}

// Detach stops following the user source. Answers that arrive afterwards
// are ignored.
func (p *NotificationPanel) Detach() {
	p.mu.Lock()
	p.detached = true
	p.loading = false
	unsub, cancel := p.unsub, p.cancel
	p.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}
