package helpers

import (
	"fmt"
	"time"

	"github.com/jessicarod7/envsh/cmd/config"
	"github.com/jessicarod7/envsh/internal/confmap"
	"github.com/jessicarod7/envsh/internal/webhook"
)

// BuildWebhookConfig builds webhook configuration from all sources.
// Precedence: env < file < json < kv < direct flags
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	webhookConf, err := confmap.Build(confmap.Sources{
		EnvPrefix: "ENVSH_WEBHOOK",
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	// Override with explicit flag values if set (highest precedence)
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != DefaultWebhookMethod {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != DefaultWebhookAuthType {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != DefaultWebhookTimeout {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != DefaultWebhookRetries {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != DefaultWebhookRetryDelay {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfig converts the merged configuration into webhook
// structures. It returns nils when no webhook URL is configured.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	configMap, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	url, ok := confmap.String(configMap, "url")
	if !ok {
		return nil, nil, nil
	}

	timeout, err := parseDurationOr(configMap, "timeout", 30*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	}

	retryDelay, err := parseDurationOr(configMap, "retry_delay", 1*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	}

	headers, err := confmap.StringMap(configMap, "headers")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook headers: %w", err)
	}

	webhookConfig := &webhook.Config{
		URL:       url,
		Headers:   headers,
		Method:    confmap.StringOr(configMap, "method", DefaultWebhookMethod),
		Timeout:   timeout,
		AuthType:  confmap.StringOr(configMap, "auth_type", DefaultWebhookAuthType),
		AuthToken: confmap.StringOr(configMap, "auth_token", ""),
	}
	if err := webhookConfig.Validate(); err != nil {
		return nil, nil, err
	}

	retryConfig := &webhook.RetryConfig{
		MaxRetries:   confmap.Int(configMap, "retries", DefaultWebhookRetries),
		InitialDelay: retryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryConfig.MaxRetries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must not be negative")
	}

	return webhookConfig, retryConfig, nil
}

func parseDurationOr(m map[string]any, key string, def time.Duration) (time.Duration, error) {
	raw, ok := confmap.String(m, key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
