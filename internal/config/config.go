package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// PoolConfig is one tier of the extraction model hierarchy. Credentials are
// keyring account names, never key material.
type PoolConfig struct {
	Models             []string `yaml:"models"`
	CredentialAccounts []string `yaml:"credential_accounts"`
	MaxRetries         int      `yaml:"max_retries"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Polling struct {
		EmailSeconds   int `yaml:"email_seconds"`
		ProcessSeconds int `yaml:"process_seconds"`
		BatchSize      int `yaml:"batch_size"`
		Concurrency    int `yaml:"concurrency"`
	} `yaml:"polling"`

	LLM struct {
		BaseURL  string     `yaml:"base_url"`
		RPS      float64    `yaml:"rps"`
		Burst    int        `yaml:"burst"`
		Primary  PoolConfig `yaml:"primary"`
		Fallback PoolConfig `yaml:"fallback"`
	} `yaml:"llm"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailbox          string   `yaml:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any"`
	} `yaml:"email"`

	Heuristics struct {
		MinSectionLen       int `yaml:"min_section_len"`
		ContinuationMaxLen  int `yaml:"continuation_max_len"`
		FragmentMaxLen      int `yaml:"fragment_max_len"`
		AnchorLookback      int `yaml:"anchor_lookback"`
		MinReconstructedLen int `yaml:"min_reconstructed_len"`
	} `yaml:"heuristics"`

	Relevance struct {
		HighAny []string `yaml:"high_any"`
		LowAny  []string `yaml:"low_any"`
	} `yaml:"relevance"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
