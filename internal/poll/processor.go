package poll

import (
	"context"
	"database/sql"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"jobsift-engine/internal/classify"
	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/extract"
	"jobsift-engine/internal/store"
)

// Processor drains pending raw messages through the extraction pipeline and
// persists accepted jobs. Messages run concurrently; each message's own
// pipeline is sequential.
type Processor struct {
	DB         *sql.DB
	Pipeline   *extract.Pipeline
	Classifier *classify.Classifier
	Hub        *events.Hub

	BatchSize   int
	Concurrency int
}

// BatchResult summarizes one drain pass, for status and the audit log.
type BatchResult struct {
	Claimed    int `json:"claimed"`
	Jobs       int `json:"jobs"`
	Duplicates int `json:"duplicates"`
	Merged     int `json:"merged"`
	Failed     int `json:"failed"`
}

// ProcessOnce claims one batch and processes it. A store failure on one
// message marks that message failed and moves on; the batch never aborts
// siblings.
func (p *Processor) ProcessOnce(ctx context.Context) (BatchResult, error) {
	msgs, err := store.ClaimPending(ctx, p.DB, p.BatchSize)
	if err != nil {
		return BatchResult{}, err
	}
	if len(msgs) == 0 {
		return BatchResult{}, nil
	}

	var (
		mu  sync.Mutex
		res = BatchResult{Claimed: len(msgs)}
	)

	g, gctx := errgroup.WithContext(ctx)
	limit := p.Concurrency
	if limit <= 0 {
		limit = 3
	}
	g.SetLimit(limit)

	for _, msg := range msgs {
		msg := msg
		g.Go(func() error {
			jobs, dups, merged, err := p.processMessage(gctx, msg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				return nil
			}
			res.Jobs += jobs
			res.Duplicates += dups
			res.Merged += merged
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("[process] batch done claimed=%d jobs=%d duplicates=%d merged=%d failed=%d",
		res.Claimed, res.Jobs, res.Duplicates, res.Merged, res.Failed)
	if p.Hub != nil {
		p.Hub.Publish(events.MakeEvent("", events.TypeBatchProcessed, 1, res))
	}
	return res, nil
}

func (p *Processor) processMessage(ctx context.Context, msg domain.SourceMessage) (jobs, dups, merged int, err error) {
	drafts, outcome := p.Pipeline.Run(ctx, msg)
	if p.Classifier != nil {
		drafts = p.Classifier.Apply(drafts)
	}
	log.Printf("[process] msg=%d source=%s strategy=%s attempts=%d drafts=%d merged=%d",
		msg.MsgID, msg.Source, outcome.Strategy, outcome.Attempts, len(drafts), outcome.Merged)

	for i := range drafts {
		d := &drafts[i]

		existing, derr := store.FindDuplicate(ctx, p.DB, d)
		if derr != nil {
			// A broken store read makes the persistence decision
			// meaningless; fail the message instead of guessing.
			log.Printf("[process] msg=%d duplicate lookup failed: %v", msg.MsgID, derr)
			_ = store.MarkMessageFailed(ctx, p.DB, msg.ID, derr.Error())
			return 0, 0, 0, derr
		}
		if existing != nil {
			dups++
			if p.Hub != nil {
				p.Hub.Publish(events.MakeEvent("", events.TypeJobDuplicate, 1, map[string]any{
					"company": d.CompanyName,
					"role":    d.JobRole,
					"matched": existing.JobID,
				}))
			}
			continue
		}

		added, ierr := store.InsertJobIgnore(ctx, p.DB, d)
		if ierr != nil {
			log.Printf("[process] msg=%d insert failed: %v", msg.MsgID, ierr)
			_ = store.MarkMessageFailed(ctx, p.DB, msg.ID, ierr.Error())
			return 0, 0, 0, ierr
		}
		if !added {
			// lost the insert race; the unique index kept the store
			// consistent
			dups++
			continue
		}
		jobs++
		if p.Hub != nil {
			p.Hub.Publish(events.MakeEvent("", events.TypeJobAccepted, 1, map[string]any{
				"company": d.CompanyName,
				"role":    d.JobRole,
				"method":  d.ApplicationMethod,
			}))
		}
	}

	if err := store.MarkMessageProcessed(ctx, p.DB, msg.ID); err != nil {
		return jobs, dups, outcome.Merged, err
	}
	return jobs, dups, outcome.Merged, nil
}
