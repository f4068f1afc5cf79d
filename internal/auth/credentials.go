package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Static errors for credential loading.
var (
	ErrMissingClientID     = errors.New("credentials missing CLIENT_ID")
	ErrMissingClientSecret = errors.New("credentials missing CLIENT_SECRETS")
	ErrMissingOrgID        = errors.New("credentials missing ORG_ID")
	ErrMissingScopes       = errors.New("credentials missing SCOPES")
)

// Credentials holds an Adobe Developer Console server-to-server credential.
// The field names mirror the keys of the console's "Download JSON" export.
type Credentials struct {
	ClientID              string   `json:"CLIENT_ID"`
	ClientSecrets         []string `json:"CLIENT_SECRETS"`
	OrgID                 string   `json:"ORG_ID"`
	TechnicalAccountID    string   `json:"TECHNICAL_ACCOUNT_ID"`
	TechnicalAccountEmail string   `json:"TECHNICAL_ACCOUNT_EMAIL,omitempty"`
	Scopes                []string `json:"SCOPES"`
}

// ClientSecret returns the active client secret. The console export carries
// a list to support secret rotation; the first entry is the current one.
func (c *Credentials) ClientSecret() string {
	if len(c.ClientSecrets) == 0 {
		return ""
	}

	return c.ClientSecrets[0]
}

// Validate checks that the fields required for the client_credentials flow
// are present.
func (c *Credentials) Validate() error {
	if c.ClientID == "" {
		return ErrMissingClientID
	}

	if c.ClientSecret() == "" {
		return ErrMissingClientSecret
	}

	if c.OrgID == "" {
		return ErrMissingOrgID
	}

	if len(c.Scopes) == 0 {
		return ErrMissingScopes
	}

	return nil
}

// LoadCredentials reads and validates a console credential file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	return ParseCredentials(data)
}

// ParseCredentials parses and validates console credential JSON.
func ParseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials

	err := json.Unmarshal(data, &creds)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	err = creds.Validate()
	if err != nil {
		return nil, err
	}

	return &creds, nil
}
