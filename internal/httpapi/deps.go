package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/poll"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal        *atomic.Value // stores config.Config
	ProcessStatus *atomic.Value // stores poll.ProcessStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Injected entrypoints, for testability
	RunProcessOnce func(ctx context.Context, cfg config.Config) (poll.BatchResult, error)
	RunIngestOnce  func(ctx context.Context, cfg config.Config) (added int, err error)
}
