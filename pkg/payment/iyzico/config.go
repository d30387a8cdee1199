package iyzico

// Config represents the configuration for the iyzico API client
type Config struct {
	// APIKey is the merchant API key
	APIKey string

	// SecretKey is the merchant secret used to sign requests
	SecretKey string

	// BaseURL is the iyzico API base URL
	BaseURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidRequest
	}
	if c.SecretKey == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
