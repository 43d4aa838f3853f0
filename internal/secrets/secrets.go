package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"jobsift-engine/internal/config"
)

const (
	// Service groups this app's secrets in the OS keychain.
	KeyringService = "jobsift"
)

// Get resolves a secret by keyring account name, with an env var fallback
// (account "jobsift:llm:foo" -> JOBSIFT_SECRET_FOO) for headless installs.
func Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}

	pw, err := keyring.Get(KeyringService, account)
	if err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}

	if v := os.Getenv(envName(account)); strings.TrimSpace(v) != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret %q not found (set it in keychain or via %s)", account, envName(account))
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

func envName(account string) string {
	parts := strings.Split(account, ":")
	last := parts[len(parts)-1]
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, last)
	return "JOBSIFT_SECRET_" + clean
}

// IMAPKeyringAccount names the mailbox password slot for the configured
// account.
func IMAPKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf("jobsift:imap:%s@%s", cfg.Email.Username, cfg.Email.IMAPHost)
}

// ResolveCredentials maps a pool's credential account names to key
// material, dropping accounts with no stored secret. The orchestrator
// rotates across whatever resolves.
func ResolveCredentials(accounts []string) []string {
	var out []string
	for _, a := range accounts {
		if v, err := Get(a); err == nil {
			out = append(out, v)
		}
	}
	return out
}
