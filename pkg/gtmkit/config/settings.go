package config

import (
	"fmt"
	"regexp"
)

// DefaultVertical is the business vertical used when none is configured.
const DefaultVertical = "retail"

// Settings is the typed configuration surface of the pixel.
type Settings struct {
	// ContainerID is the tag-management container (e.g., "GTM-A1B2C3").
	ContainerID string

	// FeedRegion is the two-letter merchant feed region code baked into
	// composite item ids (e.g., "US", "UK").
	FeedRegion string

	// BusinessVertical labels every item record. Defaults to "retail".
	BusinessVertical string

	// Debug toggles verbose diagnostics and the debug flag carried on
	// every dispatch record.
	Debug bool
}

var (
	containerIDPattern = regexp.MustCompile(`^GTM-[A-Z0-9]+$`)
	feedRegionPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
)

// SettingsFrom extracts and validates Settings from a Config.
//
// Keys: container_id, feed_region, business_vertical, debug.
func SettingsFrom(cfg Config) (Settings, error) {
	s := Settings{
		ContainerID:      cfg.String("container_id", ""),
		FeedRegion:       cfg.String("feed_region", ""),
		BusinessVertical: cfg.String("business_vertical", DefaultVertical),
		Debug:            cfg.Bool("debug", false),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings and applies the vertical default.
func (s *Settings) Validate() error {
	if !containerIDPattern.MatchString(s.ContainerID) {
		return fmt.Errorf("invalid container id %q: expected GTM-XXXXXXXX", s.ContainerID)
	}
	if !feedRegionPattern.MatchString(s.FeedRegion) {
		return fmt.Errorf("invalid feed region %q: expected a two-letter code", s.FeedRegion)
	}
	if s.BusinessVertical == "" {
		s.BusinessVertical = DefaultVertical
	}
	return nil
}
