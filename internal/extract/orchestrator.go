package extract

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"jobsift-engine/internal/domain"
)

// ModelCaller issues one chat completion against a named model using one
// credential. Implemented by the llm package; faked in tests.
type ModelCaller interface {
	Call(ctx context.Context, model, credential, system, user string) (string, error)
}

// Pool is one tier of the model failover hierarchy.
type Pool struct {
	Name        string
	Models      []string
	Credentials []string
	MaxRetries  int
}

// Picker selects an index in [0, n). Injected so tests can assert rotation
// without depending on randomness.
type Picker interface {
	Pick(n int) int
}

// RandomPicker picks uniformly at random, spreading load across models and
// credentials instead of exhausting a single one.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPicker() *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *RandomPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

// RoundRobinPicker cycles deterministically.
type RoundRobinPicker struct {
	mu   sync.Mutex
	next int
}

func (p *RoundRobinPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.next % n
	p.next++
	return i
}

// Strategy names reported in Outcome, for the audit log.
const (
	StrategyModel = "model"
	StrategyRegex = "regex"
	StrategyEmpty = "empty"
)

// Outcome reports which path produced a message's drafts and how many were
// folded away by fragment reconciliation.
type Outcome struct {
	Strategy string
	Pool     string
	Attempts int
	Merged   int
}

// Orchestrator drives the extraction hierarchy: primary model pool, then
// fallback pool, then the regex extractor. It never returns an error; total
// model failure degrades to whatever the regex path finds.
type Orchestrator struct {
	Caller       ModelCaller
	Pools        []Pool
	Picker       Picker
	SystemPrompt string
	Thresholds   Thresholds

	// BackoffBase scales the 2^attempt delay between retries. Tests set
	// it near zero; zero means one second.
	BackoffBase time.Duration
}

// Extract runs the pool hierarchy for one message. An empty array from the
// model is a valid terminal success: the model explicitly found no jobs.
func (o *Orchestrator) Extract(ctx context.Context, msg domain.SourceMessage) ([]domain.JobDraft, Outcome) {
	attempts := 0
	for _, pool := range o.Pools {
		if len(pool.Models) == 0 || len(pool.Credentials) == 0 {
			continue
		}
		retries := pool.MaxRetries
		if retries <= 0 {
			retries = 3
		}
		for attempt := 0; attempt < retries; attempt++ {
			if attempt > 0 {
				if !o.backoff(ctx, attempt) {
					return RegexFallback(msg.Text, o.Thresholds), Outcome{Strategy: StrategyRegex, Attempts: attempts}
				}
			}
			attempts++

			model := pool.Models[o.pick(len(pool.Models))]
			cred := pool.Credentials[o.pick(len(pool.Credentials))]
			completion, err := o.Caller.Call(ctx, model, cred, o.SystemPrompt, msg.Text)
			if err != nil {
				log.Printf("[extract] model call failed pool=%s model=%s attempt=%d err=%v", pool.Name, model, attempt+1, err)
				continue
			}
			drafts, err := ParseCompletion(completion)
			if err != nil {
				log.Printf("[extract] unparseable completion pool=%s model=%s attempt=%d", pool.Name, model, attempt+1)
				continue
			}
			return drafts, Outcome{Strategy: StrategyModel, Pool: pool.Name, Attempts: attempts}
		}
	}
	return RegexFallback(msg.Text, o.Thresholds), Outcome{Strategy: StrategyRegex, Attempts: attempts}
}

func (o *Orchestrator) pick(n int) int {
	if o.Picker == nil {
		if n <= 1 {
			return 0
		}
		return rand.Intn(n)
	}
	return o.Picker.Pick(n)
}

// backoff waits 2^attempt units, returning false if the context is done
// first.
func (o *Orchestrator) backoff(ctx context.Context, attempt int) bool {
	base := o.BackoffBase
	if base <= 0 {
		base = time.Second
	}
	t := time.NewTimer(base << uint(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
