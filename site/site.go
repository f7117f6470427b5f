// Package site holds the configuration of the group's site: who the organization is,
// which events it announces and when classes take place. A Site is loaded once at
// start and treated as read-only afterwards.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/munihsahne/site/events"
	"github.com/munihsahne/site/schedule"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

const (
	defaultProductID = "-//MunihSahne//TR"
	defaultTimeZone  = "Europe/Berlin"
)

type Org struct {
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	City      string `yaml:"city"`
	Instagram string `yaml:"instagram"`
	// ProductID is written as PRODID into exported calendars.
	ProductID string `yaml:"productId"`
	// UIDDomain is the right-hand side of generated calendar UIDs.
	UIDDomain string `yaml:"uidDomain"`
}

type Site struct {
	Org            Org                 `yaml:"org"`
	TimeZone       string              `yaml:"timeZone"`
	AllowedOrigins []string            `yaml:"allowedOrigins"`
	Events         []events.Event      `yaml:"events"`
	Education      schedule.Definition `yaml:"education"`
	Interests      []string            `yaml:"interests"`
}

func Default() (Site, error) {
	return Parse(defaultConfig)
}

// Load reads the site from a YAML file. An empty path yields the built-in site.
func Load(path string) (Site, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("failed to read site config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Site{}, fmt.Errorf("failed to parse site config: %w", err)
	}

	s.normalize()

	if err := s.Validate(); err != nil {
		return Site{}, err
	}

	return s, nil
}

// normalize fills in defaults. Events and the education plan inherit the site zone
// unless they name their own.
func (s *Site) normalize() {
	if s.TimeZone == "" {
		s.TimeZone = defaultTimeZone
	}
	if s.Org.ProductID == "" {
		s.Org.ProductID = defaultProductID
	}
	if s.Org.UIDDomain == "" {
		s.Org.UIDDomain = s.Org.Name
	}
	for i := range s.Events {
		if s.Events[i].TimeZone == "" {
			s.Events[i].TimeZone = s.TimeZone
		}
	}
	if s.Education.TimeZone == "" {
		s.Education.TimeZone = s.TimeZone
	}
}

func (s Site) Validate() error {
	if s.Org.Name == "" {
		return errors.New("site config: org name is required")
	}
	if _, err := time.LoadLocation(s.TimeZone); err != nil {
		return fmt.Errorf("site config: unknown time zone %q: %w", s.TimeZone, err)
	}
	for _, e := range s.Events {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("site config: %w", err)
		}
	}
	if s.HasEducation() {
		if _, err := schedule.Expand(s.Education); err != nil {
			return fmt.Errorf("site config: %w", err)
		}
	}

	return nil
}

// HasEducation reports whether a class schedule is configured.
func (s Site) HasEducation() bool {
	return s.Education.Weekday != ""
}
