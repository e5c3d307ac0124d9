package badge

import (
	"sync"

	"sbd/internal/models"
	"sbd/internal/providers"
)

// Surface is the indicator the daemon drives: a background color and a
// short text label, held in process state and served over HTTP.
type Surface interface {
	Set(color, text string)
	Get() models.Badge
}

type StatusBadge struct {
	mu     sync.RWMutex
	state  models.Badge
	logger providers.Logger
}

func NewStatusBadge(logger providers.Logger) Surface {
	return &StatusBadge{logger: logger}
}

func (b *StatusBadge) Set(color, text string) {
	b.mu.Lock()
	b.state = models.Badge{Color: color, Text: text}
	b.mu.Unlock()
	b.logger.Infof(providers.TypeApp, "badge set: %s %q", color, text)
}

func (b *StatusBadge) Get() models.Badge {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}
