package extract

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

// fakeCaller replays scripted completions and records what was asked of it.
type fakeCaller struct {
	mu      sync.Mutex
	script  []callResult
	calls   []callRecord
	pointer int
}

type callResult struct {
	completion string
	err        error
}

type callRecord struct {
	model string
	cred  string
}

func (f *fakeCaller) Call(_ context.Context, model, credential, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, callRecord{model: model, cred: credential})
	if f.pointer >= len(f.script) {
		return "", errors.New("script exhausted")
	}
	r := f.script[f.pointer]
	f.pointer++
	return r.completion, r.err
}

func testOrchestrator(c ModelCaller, pools []Pool) *Orchestrator {
	return &Orchestrator{
		Caller:       c,
		Pools:        pools,
		Picker:       &RoundRobinPicker{},
		SystemPrompt: SystemPrompt,
		BackoffBase:  time.Millisecond,
	}
}

func msg(text string) domain.SourceMessage {
	return domain.SourceMessage{ID: 1, MsgID: 42, Source: "test", Text: text}
}

func TestOrchestratorPrimarySuccess(t *testing.T) {
	caller := &fakeCaller{script: []callResult{
		{completion: `[{"company_name":"Acme","job_role":"SDE"}]`},
	}}
	o := testOrchestrator(caller, []Pool{
		{Name: "primary", Models: []string{"m1"}, Credentials: []string{"k1"}, MaxRetries: 3},
	})

	drafts, out := o.Extract(context.Background(), msg("Acme is hiring SDEs, apply now."))
	require.Len(t, drafts, 1)
	require.Equal(t, StrategyModel, out.Strategy)
	require.Equal(t, "primary", out.Pool)
	require.Equal(t, 1, out.Attempts)
}

func TestOrchestratorEmptyArrayIsTerminalSuccess(t *testing.T) {
	caller := &fakeCaller{script: []callResult{{completion: "[]"}}}
	o := testOrchestrator(caller, []Pool{
		{Name: "primary", Models: []string{"m1"}, Credentials: []string{"k1"}, MaxRetries: 3},
	})

	drafts, out := o.Extract(context.Background(), msg("nothing job-like in here"))
	require.Empty(t, drafts)
	require.Equal(t, StrategyModel, out.Strategy)
	require.Len(t, caller.calls, 1, "no retry after an explicit empty result")
}

func TestOrchestratorFailsOverToSecondPool(t *testing.T) {
	caller := &fakeCaller{script: []callResult{
		{err: errors.New("rate limited")},
		{err: errors.New("rate limited")},
		{completion: "no json here, sorry"},
		{completion: `[{"company_name":"Acme","job_role":"SDE"}]`},
	}}
	o := testOrchestrator(caller, []Pool{
		{Name: "primary", Models: []string{"m1"}, Credentials: []string{"k1"}, MaxRetries: 3},
		{Name: "fallback", Models: []string{"m2"}, Credentials: []string{"k2"}, MaxRetries: 2},
	})

	drafts, out := o.Extract(context.Background(), msg("Acme is hiring SDEs, apply now."))
	require.Len(t, drafts, 1)
	require.Equal(t, StrategyModel, out.Strategy)
	require.Equal(t, "fallback", out.Pool)
	require.Equal(t, 4, out.Attempts)
	require.Equal(t, "m2", caller.calls[3].model)
}

func TestOrchestratorTotalFailureDegradesToRegex(t *testing.T) {
	caller := &fakeCaller{script: []callResult{
		{err: errors.New("down")}, {err: errors.New("down")},
		{err: errors.New("down")}, {err: errors.New("down")},
	}}
	o := testOrchestrator(caller, []Pool{
		{Name: "primary", Models: []string{"m1"}, Credentials: []string{"k1"}, MaxRetries: 2},
		{Name: "fallback", Models: []string{"m2"}, Credentials: []string{"k2"}, MaxRetries: 2},
	})

	drafts, out := o.Extract(context.Background(), msg("Company - Acme\nRole - SDE\nEmail: hr@acme.example"))
	require.Equal(t, StrategyRegex, out.Strategy)
	require.Len(t, drafts, 1)
	require.Equal(t, "Acme", drafts[0].CompanyName)
}

func TestOrchestratorSkipsPoolWithoutCredentials(t *testing.T) {
	caller := &fakeCaller{script: []callResult{
		{completion: `[{"company_name":"Acme","job_role":"SDE"}]`},
	}}
	o := testOrchestrator(caller, []Pool{
		{Name: "primary", Models: []string{"m1"}, Credentials: nil, MaxRetries: 3},
		{Name: "fallback", Models: []string{"m2"}, Credentials: []string{"k2"}, MaxRetries: 2},
	})

	_, out := o.Extract(context.Background(), msg("Acme is hiring SDEs."))
	require.Equal(t, "fallback", out.Pool)
	require.Equal(t, "m2", caller.calls[0].model)
}

func TestOrchestratorRotatesModels(t *testing.T) {
	caller := &fakeCaller{script: []callResult{
		{err: errors.New("down")}, {err: errors.New("down")}, {err: errors.New("down")},
	}}
	o := testOrchestrator(caller, []Pool{
		{Name: "primary", Models: []string{"m1", "m2"}, Credentials: []string{"k1"}, MaxRetries: 3},
	})

	_, _ = o.Extract(context.Background(), msg("Company - Acme\nRole - SDE goes here"))
	require.Len(t, caller.calls, 3)
	require.Equal(t, "m1", caller.calls[0].model)
	require.Equal(t, "m2", caller.calls[1].model)
	require.Equal(t, "m1", caller.calls[2].model)
}

func TestOrchestratorBackoffIsCancellable(t *testing.T) {
	caller := &fakeCaller{script: []callResult{
		{err: errors.New("down")},
	}}
	o := testOrchestrator(caller, []Pool{
		{Name: "primary", Models: []string{"m1"}, Credentials: []string{"k1"}, MaxRetries: 5},
	})
	o.BackoffBase = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_, out := o.Extract(ctx, msg("Company - Acme\nRole - SDE goes here"))
		require.Equal(t, StrategyRegex, out.Strategy)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("extract did not abort during backoff")
	}
}
