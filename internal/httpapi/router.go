package httpapi

import "net/http"

// NewMux wires all routes; main() wraps it with the middleware chain.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Jobs
	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Stats,
	}))
	mux.HandleFunc("/jobs/export.csv", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.ExportCSV,
	}))

	// Messages and processing
	ph := ProcessHandler{
		DB:             d.DB,
		CfgVal:         d.CfgVal,
		ProcessStatus:  d.ProcessStatus,
		RunProcessOnce: d.RunProcessOnce,
		RunIngestOnce:  d.RunIngestOnce,
	}
	mux.HandleFunc("/messages", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Submit,
	}))
	mux.HandleFunc("/messages/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.MessageStats,
	}))
	mux.HandleFunc("/process/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Run,
	}))
	mux.HandleFunc("/process/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Status,
	}))
	mux.HandleFunc("/ingest/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Ingest,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, not a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))
	mux.HandleFunc("/api/secrets/llm", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetLLMKey,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
