package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	DefaultContentStoreAPIVersion = "2024-01-01"
	DefaultContentStoreTimeout    = 10 * time.Second
)

// ContentStoreConfig locates the headless content store dataset
type ContentStoreConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	URL        string // overrides the project host, used by tests and proxies
	Timeout    time.Duration
}

// Validate checks that a dataset can be addressed
func (c *ContentStoreConfig) Validate() error {
	if c.ProjectID == "" && c.URL == "" {
		return errors.New("CONTENT_STORE_PROJECT_ID or CONTENT_STORE_URL must be set")
	}
	if c.Dataset == "" {
		return errors.New("CONTENT_STORE_DATASET must be set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid CONTENT_STORE_TIMEOUT %s", c.Timeout)
	}
	return nil
}

// BaseURL returns the API root for the configured project
func (c *ContentStoreConfig) BaseURL() string {
	if c.URL != "" {
		return strings.TrimRight(c.URL, "/")
	}
	return fmt.Sprintf("https://%s.api.sanity.io", c.ProjectID)
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
