package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/httpapi"
	email_ingest "jobsift-engine/internal/ingest/email"
	"jobsift-engine/internal/poll"
	"jobsift-engine/internal/scheduler"
	"jobsift-engine/internal/store"
)

func main() {
	dataDir := os.Getenv("JOBSIFT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over the
	// sqlite writer and the mailbox.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("instance lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance holds %s", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		return cfg, config.Validate(cfg)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "jobsift.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	hub := events.NewHub()

	var processStatus atomic.Value
	processStatus.Store(poll.ProcessStatus{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poll.StartProcessor(ctx, db.Pool, &cfgVal, &processStatus, hub)

	if cfg.Email.Enabled && cfg.Polling.EmailSeconds > 0 {
		interval := time.Duration(cfg.Polling.EmailSeconds) * time.Second
		go scheduler.Every(ctx, interval, "ingest", func(tctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			f := &email_ingest.Fetcher{DB: db.Pool, Cfg: cur, Hub: hub}
			_, err := f.FetchOnce(tctx)
			return err
		})
	}

	go scheduler.Every(ctx, 24*time.Hour, "cleanup", func(context.Context) error {
		n, err := store.CleanupOldJobs(db.Pool)
		if n > 0 {
			log.Printf("[cleanup] removed %d old jobs", n)
		}
		return err
	})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:            db.Pool,
		Hub:           hub,
		CfgVal:        &cfgVal,
		ProcessStatus: &processStatus,
		UserCfgPath:   userCfgPath,
		LoadCfg:       loadCfg,
		RunProcessOnce: func(rctx context.Context, cur config.Config) (poll.BatchResult, error) {
			return poll.BuildProcessor(db.Pool, cur, hub).ProcessOnce(rctx)
		},
		RunIngestOnce: func(rctx context.Context, cur config.Config) (int, error) {
			f := &email_ingest.Fetcher{DB: db.Pool, Cfg: cur, Hub: hub}
			return f.FetchOnce(rctx)
		},
	})

	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Recover,
		httpapi.Cors,
	)

	port := cfg.App.Port
	if port <= 0 {
		port = 38572
	}
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}
