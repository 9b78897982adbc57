package helpers

import (
	"github.com/spf13/pflag"

	"github.com/jessicarod7/envsh/cmd/config"
)

// Flag names shared between commands and configuration keys
const (
	FlagConfig        = "config"
	FlagLogLevel      = "log-level"
	FlagVerbose       = "verbose"
	FlagJSON          = "json"
	FlagDryRun        = "dry-run"
	FlagDisplaySecret = "display-secret"
	FlagShorten       = "shorten"
	FlagSecret        = "secret"
	FlagExpires       = "expires"
	FlagDelete        = "delete"

	DefaultLogLevel = "warn"
)

// Webhook flag defaults, also used to detect explicitly set values
const (
	DefaultWebhookMethod     = "POST"
	DefaultWebhookAuthType   = "none"
	DefaultWebhookTimeout    = "30s"
	DefaultWebhookRetries    = 3
	DefaultWebhookRetryDelay = "1s"
)

// SetupGlobalFlags adds flags inherited by every command
func SetupGlobalFlags(fs *pflag.FlagSet, flags *config.GlobalFlags) {
	fs.StringVar(&flags.ConfigFile, FlagConfig, "", "Config file (default: $XDG_CONFIG_HOME/envsh/config.yaml)")
	fs.StringVar(&flags.LogLevel, FlagLogLevel, DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.BoolVarP(&flags.Verbose, FlagVerbose, "v", false, "Shortcut for --log-level debug")
	fs.BoolVar(&flags.JSON, FlagJSON, false, "Print a JSON receipt instead of text")
	fs.BoolVar(&flags.DryRun, FlagDryRun, false, "Validate and describe the request without sending it")
}

// SetupCreateFlags adds the flags of the root (create) command
func SetupCreateFlags(fs *pflag.FlagSet, flags *config.CreateFlags) {
	fs.BoolVarP(&flags.DisplaySecret, FlagDisplaySecret, "d", false, "Print X-Token (and expiry date)")
	fs.BoolVarP(&flags.Shorten, FlagShorten, "s", false, "Shorten a URL instead of sending the file it points to (fails on a path)")
	fs.BoolVarP(&flags.Secret, FlagSecret, "S", false, "Make the resulting URL difficult to guess")
	fs.StringVarP(&flags.Expires, FlagExpires, "e", "", "When the URL should expire, in hours or epoch milliseconds")
}

// SetupManageFlags adds the action flags of the manage command
func SetupManageFlags(fs *pflag.FlagSet, flags *config.ManageFlags) {
	fs.StringVarP(&flags.Expires, FlagExpires, "e", "", "When the URL should expire, in hours or epoch milliseconds")
	fs.BoolVarP(&flags.Delete, FlagDelete, "d", false, "Delete the shared URL immediately")
}

// SetupUploadFlags adds receipt archive flags
func SetupUploadFlags(fs *pflag.FlagSet, cfg *config.UploadConfig) {
	fs.StringVar(&cfg.Provider, "upload-provider", "", "Archive receipts with this provider (e.g., minio)")
	fs.StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	fs.StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	fs.StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON file containing upload configuration")
}

// SetupWebhookFlags adds webhook-related flags
func SetupWebhookFlags(fs *pflag.FlagSet, cfg *config.WebhookConfig) {
	// Direct configuration flags
	fs.StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send receipts to")
	fs.StringVar(&cfg.Method, "webhook-method", DefaultWebhookMethod, "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	fs.StringVar(&cfg.AuthType, "webhook-auth-type", DefaultWebhookAuthType, "Authentication type: none, bearer, api-key")
	fs.StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	fs.IntVar(&cfg.Retries, "webhook-retries", DefaultWebhookRetries, "Maximum webhook retry attempts (0 = no retries)")
	fs.StringVar(&cfg.RetryDelay, "webhook-retry-delay", DefaultWebhookRetryDelay, "Initial delay between webhook retries")
	fs.StringVar(&cfg.Timeout, "webhook-timeout", DefaultWebhookTimeout, "Total timeout for webhook including retries")

	// Alternative configuration methods
	fs.StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	fs.StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	fs.StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON file containing webhook configuration")
}

// SetupReceiptFlags adds every receipt sink flag
func SetupReceiptFlags(fs *pflag.FlagSet, cfg *config.ReceiptConfig) {
	SetupWebhookFlags(fs, &cfg.Webhook)
	SetupUploadFlags(fs, &cfg.Upload)
}
