package email_ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/emersion/go-imap/v2"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/secrets"
	"jobsift-engine/internal/store"
)

// Fetcher pulls unseen mail into raw_messages, where the batch processor
// picks it up. The IMAP UID doubles as the source message id, so refetches
// dedupe in the store.
type Fetcher struct {
	DB  *sql.DB
	Cfg config.Config
	Hub *events.Hub
}

func (f *Fetcher) FetchOnce(ctx context.Context) (added int, err error) {
	cfg := f.Cfg
	if !cfg.Email.Enabled {
		return 0, nil
	}

	password, err := secrets.Get(secrets.IMAPKeyringAccount(cfg))
	if err != nil {
		return 0, fmt.Errorf("imap password: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Email.IMAPHost, cfg.Email.IMAPPort)
	c, err := dialAndLogin(ctx, addr, cfg.Email.Username, password)
	if err != nil {
		return 0, err
	}
	defer logoutAndClose(c)

	msgs, err := fetchUnseen(ctx, c, cfg.Email.Mailbox, 50)
	if err != nil {
		return 0, err
	}

	var stored []imap.UID
	for _, m := range msgs {
		if !subjectMatches(m.Subject, cfg.Email.SearchSubjectAny) {
			continue
		}
		text := bodyText(m.Raw)
		if strings.TrimSpace(text) == "" {
			continue
		}

		ok, err := store.AddRawMessage(ctx, f.DB, "email", int64(m.UID), text)
		if err != nil {
			log.Printf("[ingest] store uid=%d: %v", m.UID, err)
			continue
		}
		stored = append(stored, m.UID)
		if ok {
			added++
			if f.Hub != nil {
				f.Hub.Publish(events.MakeEvent("", events.TypeMessageIngested, 1, map[string]any{
					"uid":     m.UID,
					"subject": m.Subject,
				}))
			}
		}
	}

	if err := markSeen(c, stored); err != nil {
		log.Printf("[ingest] mark seen: %v", err)
	}
	log.Printf("[ingest] fetched=%d stored=%d", len(msgs), added)
	return added, nil
}

// subjectMatches accepts everything when no filter is configured.
func subjectMatches(subject string, any []string) bool {
	if len(any) == 0 {
		return true
	}
	s := strings.ToLower(subject)
	for _, term := range any {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && strings.Contains(s, term) {
			return true
		}
	}
	return false
}
