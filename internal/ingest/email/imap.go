package email_ingest

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Message is one fetched mail: envelope plus full RFC822 bytes, fetched
// with BODY.PEEK[] so nothing is marked \Seen until we say so.
type Message struct {
	UID     imap.UID
	From    string
	Subject string
	Date    time.Time
	Raw     []byte
}

func dialAndLogin(ctx context.Context, addr, username, password string) (*imapclient.Client, error) {
	if addr == "" {
		return nil, errors.New("imap addr is required")
	}
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// fetchUnseen pulls up to max unseen messages from the selected mailbox,
// newest first. Mail older than three months is skipped outright.
func fetchUnseen(ctx context.Context, c *imapclient.Client, mailbox string, max int) ([]Message, error) {
	if max <= 0 {
		max = 50
	}

	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -3, 0),
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]Message, 0, len(uids))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		var m Message
		m.UID = buf.UID
		if buf.Envelope != nil {
			m.Subject = buf.Envelope.Subject
			m.Date = buf.Envelope.Date
			if len(buf.Envelope.From) > 0 {
				m.From = buf.Envelope.From[0].Addr()
			}
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			m.Raw = append([]byte(nil), b...)
		}
		out = append(out, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

// markSeen flags messages we have stored, so the next fetch skips them.
func markSeen(c *imapclient.Client, uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	storeFlags := &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}
	// Store has no Wait; Close reports the final status.
	cmd := c.Store(imap.UIDSetNum(uids...), storeFlags, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap store add seen: %w", err)
	}
	return nil
}

func logoutAndClose(c *imapclient.Client) {
	if c == nil {
		return
	}
	_ = c.Logout().Wait()
	_ = c.Close()
}
