package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kurpanel/kurpanel-backend/internal/models"
)

// maxNotifications caps the list; permanent disclaimers never count
// against newer entries being visible but do count toward the cap's
// retained tail.
const maxNotifications = 20

// Center is the in-memory notification list. It is seeded with the two
// standing disclaimers: the dashboard is indicative, not transactional.
type Center struct {
	mu    sync.Mutex
	items []models.Notification
}

func NewCenter() *Center {
	now := time.Now()
	return &Center{
		items: []models.Notification{
			{
				ID:        "permanent-currency",
				Message:   "Döviz kurları gösterge niteliğindedir. Kesin işlemler için lütfen bankanız veya diğer finans kurumları ile iletişime geçiniz.",
				Timestamp: now,
				Permanent: true,
			},
			{
				ID:        "permanent-gold",
				Message:   "Altın fiyatları referans amaçlıdır. Güncel ve kesin fiyatlar için kuyumcunuz veya bankanız ile görüşmenizi öneririz.",
				Timestamp: now,
				Permanent: true,
			},
		},
	}
}

// Add prepends a new notification and trims the list to the cap while
// keeping all permanent entries.
func (c *Center) Add(message string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.Notification, 0, len(c.items)+1)
	items = append(items, n)
	items = append(items, c.items...)

	if len(items) > maxNotifications {
		kept := items[:0:0]
		for i, it := range items {
			if i < maxNotifications || it.Permanent {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	c.items = items
	return n
}

// List returns a copy of all notifications, newest first, permanents last
// where they were seeded.
func (c *Center) List() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount counts notifications not yet marked read.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// MarkRead flags one notification as read. Unknown IDs are ignored.
func (c *Center) MarkRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return true
		}
	}
	return false
}

// ClearAll removes every notification except the permanent disclaimers.
func (c *Center) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0:0]
	for _, it := range c.items {
		if it.Permanent {
			kept = append(kept, it)
		}
	}
	c.items = kept
}
