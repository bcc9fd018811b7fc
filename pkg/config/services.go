package config

import (
	"fmt"
)

// JournalConfig extends BaseConfig with journal-specific settings
// squash is read by the unmarshaller, flatten by the struct defaults provider.
type JournalConfig struct {
	BaseConfig `koanf:",squash,flatten"`
	Journal    JournalSettings `koanf:"journal"`
}

// JournalSettings contains review/rating behaviour switches.
type JournalSettings struct {
	// SharedEditing lets any authenticated identity update or delete any
	// review. When false only the owner (or anyone, for ownerless rows) may.
	SharedEditing bool `koanf:"shared_editing"`
	FeaturedLimit int  `koanf:"featured_limit"`
	LatestLimit   int  `koanf:"latest_limit"`
	// MaxQueryLimit caps listing queries; 0 leaves them unbounded.
	MaxQueryLimit int  `koanf:"max_query_limit"`
}

// NewJournalConfig returns a JournalConfig populated with defaults.
func NewJournalConfig() *JournalConfig {
	base := GetDefaults()
	base.Service.Name = "journal"
	return &JournalConfig{
		BaseConfig: *base,
		Journal: JournalSettings{
			SharedEditing: true,
			FeaturedLimit: DefaultFeaturedLimit,
			LatestLimit:   DefaultLatestLimit,
		},
	}
}

// Validate validates the journal configuration
func (c *JournalConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if c.Journal.FeaturedLimit < 1 {
		return fmt.Errorf("journal featured limit must be at least 1")
	}
	if c.Journal.LatestLimit < 1 {
		return fmt.Errorf("journal latest limit must be at least 1")
	}
	if c.Journal.MaxQueryLimit < 0 {
		return fmt.Errorf("journal max query limit must not be negative")
	}
	if c.Journal.MaxQueryLimit > 0 && c.Journal.MaxQueryLimit < c.Journal.LatestLimit {
		return fmt.Errorf("journal max query limit must be 0 or at least the latest limit")
	}
	return nil
}
