package confluence

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultBaseURL is the XNAT wiki.
const DefaultBaseURL = "https://wiki.xnat.org"

// Config contains configuration for the Confluence REST client.
//
// Example configuration (HCL):
//
//	confluence {
//	  base_url   = "https://wiki.xnat.org"
//	  username   = env("WIKI_USER")
//	  timeout    = "30s"
//	  tls_verify = true
//	}
type Config struct {
	// BaseURL is the wiki root, without the /rest/api suffix.
	BaseURL string

	// Username and Password are sent with HTTP Basic authentication.
	Username string
	Password string `json:"-"`

	// TLSVerify controls TLS certificate verification.
	// Set to false only for self-signed development servers.
	TLSVerify *bool

	// Timeout for each API request.
	// Default: 30 seconds
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:   DefaultBaseURL,
		TLSVerify: &tlsVerify,
		Timeout:   30 * time.Second,
		UserAgent: "docsync",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(1)).Error("must be positive")),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// NewHTTPClient creates an HTTP client configured for this wiki.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
