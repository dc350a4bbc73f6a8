// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

// ProviderType represents the type of API provider (e.g., OpenAI, Anthropic, Google, Meta).
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGoogle    ProviderType = "google"
	ProviderMeta      ProviderType = "meta"
)

// KeySlot identifies which configured credential was used for a call.
type KeySlot string

const (
	// KeyPrimary is the main credential for a provider.
	KeyPrimary KeySlot = "primary"

	// KeyBackup is the secondary credential, used only after the primary
	// fails an authentication or quota check.
	KeyBackup KeySlot = "backup"
)

// Credential pairs an API key value with the slot it was configured in.
type Credential struct {
	Key  string
	Slot KeySlot
}

// ProviderConfig is the immutable per-provider configuration resolved at
// startup. It is read-only after loading; invocations never mutate it.
type ProviderConfig struct {
	// Name is the unique provider identifier within a run.
	Name ProviderType `json:"name" mapstructure:"name"`

	// Model is the provider-native model identifier to request.
	Model string `json:"model" mapstructure:"model"`

	// BaseURL is the base endpoint for the provider's API.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// PrimaryKey is the main API credential.
	PrimaryKey string `json:"-" mapstructure:"primary_key"`

	// BackupKey is an optional secondary credential. When set, a failed
	// auth or quota check on the primary triggers exactly one retry.
	BackupKey string `json:"-" mapstructure:"backup_key"`

	// Enabled indicates whether this provider participates in batches.
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// IsValid checks if the provider config has all required fields.
func (c *ProviderConfig) IsValid() bool {
	return c.Name != "" && c.Model != "" && c.BaseURL != ""
}

// Usable reports whether the provider has at least one credential and can
// be attempted. Keyless providers are excluded from batches at load time.
func (c *ProviderConfig) Usable() bool {
	return c.PrimaryKey != "" || c.BackupKey != ""
}

// HasBackupKey reports whether the provider opted into retry-with-backup.
func (c *ProviderConfig) HasBackupKey() bool {
	return c.BackupKey != "" && c.BackupKey != c.PrimaryKey
}

// Credentials returns the credential sequence for an invocation: the
// primary key first, then the backup if one is configured. A config with
// only a backup key yields that key in the primary slot, so callers always
// see a non-empty first credential when Usable() is true.
func (c *ProviderConfig) Credentials() []Credential {
	if c.PrimaryKey == "" {
		if c.BackupKey == "" {
			return nil
		}
		return []Credential{{Key: c.BackupKey, Slot: KeyPrimary}}
	}

	creds := []Credential{{Key: c.PrimaryKey, Slot: KeyPrimary}}
	if c.HasBackupKey() {
		creds = append(creds, Credential{Key: c.BackupKey, Slot: KeyBackup})
	}
	return creds
}
