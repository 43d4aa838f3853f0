package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}

	if cfg.Polling.ProcessSeconds <= 0 {
		errs = append(errs, "polling.process_seconds must be > 0")
	}
	if cfg.Polling.BatchSize <= 0 {
		errs = append(errs, "polling.batch_size must be > 0")
	}
	if cfg.Polling.Concurrency <= 0 {
		errs = append(errs, "polling.concurrency must be > 0")
	}

	checkPool := func(name string, p PoolConfig) {
		if len(p.Models) == 0 {
			return // empty pool gets skipped by the orchestrator
		}
		if len(p.CredentialAccounts) == 0 {
			errs = append(errs, fmt.Sprintf("llm.%s.credential_accounts must have at least 1 account when models are set", name))
		}
		if p.MaxRetries < 0 {
			errs = append(errs, fmt.Sprintf("llm.%s.max_retries must be >= 0", name))
		}
		for i, m := range p.Models {
			if strings.TrimSpace(m) == "" {
				errs = append(errs, fmt.Sprintf("llm.%s.models[%d] cannot be empty", name, i))
			}
		}
	}
	checkPool("primary", cfg.LLM.Primary)
	checkPool("fallback", cfg.LLM.Fallback)

	if cfg.Email.Enabled {
		if strings.TrimSpace(cfg.Email.IMAPHost) == "" {
			errs = append(errs, "email.imap_host is required when email.enabled=true")
		}
		if cfg.Email.IMAPPort == 0 {
			errs = append(errs, "email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(cfg.Email.Username) == "" {
			errs = append(errs, "email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(cfg.Email.Mailbox) == "" {
			errs = append(errs, "email.mailbox is required when email.enabled=true")
		}
	}

	checkLen := func(name string, v int) {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("heuristics.%s must be >= 0", name))
		}
	}
	checkLen("min_section_len", cfg.Heuristics.MinSectionLen)
	checkLen("continuation_max_len", cfg.Heuristics.ContinuationMaxLen)
	checkLen("fragment_max_len", cfg.Heuristics.FragmentMaxLen)
	checkLen("anchor_lookback", cfg.Heuristics.AnchorLookback)
	checkLen("min_reconstructed_len", cfg.Heuristics.MinReconstructedLen)

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
