package store

import "github.com/JonMunkholm/TrainingReg/internal/core"

var (
	_ core.Store     = (*Postgres)(nil)
	_ core.Store     = (*Memory)(nil)
	_ core.Publisher = (*Memory)(nil)
	_ core.Feed      = (*RedisFeed)(nil)
	_ core.Publisher = (*RedisFeed)(nil)
)

// Composite joins an insert/list store with a separate change feed, for
// deployments where notifications travel over Redis instead of the
// database.
type Composite struct {
	core.Inserter
	core.Lister
	core.Feed
}

// WithFeed returns s with its change feed replaced by feed.
func WithFeed(s interface {
	core.Inserter
	core.Lister
}, feed core.Feed) Composite {
	return Composite{Inserter: s, Lister: s, Feed: feed}
}
