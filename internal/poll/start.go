package poll

import (
	"context"
	"database/sql"
	"log"
	"sync/atomic"
	"time"

	"jobsift-engine/internal/classify"
	"jobsift-engine/internal/config"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/extract"
	"jobsift-engine/internal/llm"
	"jobsift-engine/internal/secrets"
)

// ProcessStatus is the last-run snapshot surfaced on /api/process/status.
type ProcessStatus struct {
	Running   bool        `json:"running"`
	LastRunAt string      `json:"lastRunAt"`
	LastOkAt  string      `json:"lastOkAt"`
	Last      BatchResult `json:"last"`
	LastError string      `json:"lastError"`
}

// BuildProcessor assembles a Processor from one config snapshot. Credential
// accounts resolve through the keychain at build time, so rotating a key
// takes effect on the next tick.
func BuildProcessor(db *sql.DB, cfg config.Config, hub *events.Hub) *Processor {
	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.RPS, cfg.LLM.Burst)

	th := extract.Thresholds{
		MinSectionLen:       cfg.Heuristics.MinSectionLen,
		ContinuationMaxLen:  cfg.Heuristics.ContinuationMaxLen,
		FragmentMaxLen:      cfg.Heuristics.FragmentMaxLen,
		AnchorLookback:      cfg.Heuristics.AnchorLookback,
		MinReconstructedLen: cfg.Heuristics.MinReconstructedLen,
	}

	orch := &extract.Orchestrator{
		Caller: client,
		Pools: []extract.Pool{
			{
				Name:        "primary",
				Models:      cfg.LLM.Primary.Models,
				Credentials: secrets.ResolveCredentials(cfg.LLM.Primary.CredentialAccounts),
				MaxRetries:  cfg.LLM.Primary.MaxRetries,
			},
			{
				Name:        "fallback",
				Models:      cfg.LLM.Fallback.Models,
				Credentials: secrets.ResolveCredentials(cfg.LLM.Fallback.CredentialAccounts),
				MaxRetries:  cfg.LLM.Fallback.MaxRetries,
			},
		},
		Picker:       extract.NewRandomPicker(),
		SystemPrompt: extract.SystemPrompt,
		Thresholds:   th,
	}

	return &Processor{
		DB:       db,
		Pipeline: &extract.Pipeline{Orchestrator: orch, Thresholds: th},
		Classifier: &classify.Classifier{
			HighAny: cfg.Relevance.HighAny,
			LowAny:  cfg.Relevance.LowAny,
		},
		Hub:         hub,
		BatchSize:   cfg.Polling.BatchSize,
		Concurrency: cfg.Polling.Concurrency,
	}
}

// StartProcessor runs the batch drain on a ticker until ctx is done.
func StartProcessor(ctx context.Context, db *sql.DB, cfgVal *atomic.Value, statusVal *atomic.Value, hub *events.Hub) {
	go func() {
		for {
			cfgAny := cfgVal.Load()
			if cfgAny == nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}
			cfg := cfgAny.(config.Config)

			interval := time.Duration(cfg.Polling.ProcessSeconds) * time.Second
			if interval <= 0 {
				interval = 30 * time.Second
			}

			st := loadStatus(statusVal)
			st.Running = true
			st.LastRunAt = time.Now().Format(time.RFC3339)
			statusVal.Store(st)

			p := BuildProcessor(db, cfg, hub)
			res, err := p.ProcessOnce(ctx)

			st = loadStatus(statusVal)
			st.Running = false
			st.Last = res
			if err != nil {
				st.LastError = err.Error()
				log.Printf("[process] error: %v", err)
			} else {
				st.LastError = ""
				st.LastOkAt = time.Now().Format(time.RFC3339)
			}
			statusVal.Store(st)

			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
		}
	}()
}

func loadStatus(v *atomic.Value) ProcessStatus {
	if st, ok := v.Load().(ProcessStatus); ok {
		return st
	}
	return ProcessStatus{}
}
