package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SMSConfig holds the SMS gateway settings loaded from a TOML file. The
// provider contract is a plain REST endpoint; only the key, sender id and
// retry/timeout knobs vary per deployment.
type SMSConfig struct {
	Gateway  GatewaySettings  `toml:"gateway"`
	Delivery DeliverySettings `toml:"delivery"`
}

// GatewaySettings contains provider endpoint and credentials.
type GatewaySettings struct {
	APIKey      string `toml:"api_key"`
	APIEndpoint string `toml:"api_endpoint"`
	SenderID    string `toml:"sender_id"`
	Route       string `toml:"route"`
}

// DeliverySettings contains timeouts, retries and the text log location.
type DeliverySettings struct {
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	MaxRetryAttempts  int    `toml:"max_retry_attempts"`
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`
	LogFile           string `toml:"log_file"`
	MaxConcurrent     int    `toml:"max_concurrent"`
}

// LoadSMSConfig loads configuration from a TOML file.
func LoadSMSConfig(filename string) (*SMSConfig, error) {
	config := &SMSConfig{}
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	config.applyDefaults()
	return config, nil
}

// DefaultSMSConfig returns config usable without a file (dry-run gateway).
func DefaultSMSConfig() *SMSConfig {
	config := &SMSConfig{}
	config.applyDefaults()
	return config
}

func (c *SMSConfig) applyDefaults() {
	if c.Delivery.TimeoutSeconds <= 0 {
		c.Delivery.TimeoutSeconds = 10
	}
	if c.Delivery.MaxRetryAttempts <= 0 {
		c.Delivery.MaxRetryAttempts = 1
	}
	if c.Delivery.RetryDelaySeconds <= 0 {
		c.Delivery.RetryDelaySeconds = 2
	}
	if c.Delivery.LogFile == "" {
		c.Delivery.LogFile = "sms_outbox.log"
	}
	if c.Delivery.MaxConcurrent <= 0 {
		c.Delivery.MaxConcurrent = 4
	}
	if c.Gateway.Route == "" {
		c.Gateway.Route = "transactional"
	}
}
