package tasks

import (
	"context"

	"github.com/lysyi3m/launch-comb/app/announcement"
	"github.com/lysyi3m/launch-comb/app/binance"
	"github.com/lysyi3m/launch-comb/app/notify"
	"github.com/lysyi3m/launch-comb/app/state"
)

// AnnouncementSource provides the catalog and article bodies of one site.
type AnnouncementSource interface {
	Warmup(ctx context.Context)
	FetchCatalog(ctx context.Context, catalogID, pageNo, pageSize int) ([]announcement.Article, error)
	FetchDetail(ctx context.Context, code string) (string, error)
}

// Notifier delivers the combined message of a run.
type Notifier interface {
	Send(ctx context.Context, content string) error
}

// StateStore loads and persists the seen keys.
type StateStore interface {
	Load(ctx context.Context) (announcement.SeenState, error)
	SaveAtomic(ctx context.Context, seen announcement.SeenState) error
}

var (
	_ AnnouncementSource = (*binance.Client)(nil)
	_ Notifier           = (*notify.Discord)(nil)
	_ Notifier           = (*notify.Printer)(nil)
	_ StateStore         = (state.Store)(nil)
)
