package helpers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jessicarod7/envsh/cmd/config"
	"github.com/jessicarod7/envsh/internal/envsh"
)

// EnvPrefix is the environment prefix for every flag, e.g. ENVSH_SECRET
const EnvPrefix = "ENVSH"

// LoadConfig binds the command's flags to a fresh viper instance backed by
// the environment and the optional config file. Explicit flags win over
// the environment, which wins over the file.
func LoadConfig(cmd *cobra.Command, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = ""
		}
		v.SetConfigName("config")
		if dir != "" {
			v.AddConfigPath(filepath.Join(dir, "envsh"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	return v, nil
}

// ApplyGlobalFlags copies the resolved global settings back into flags
func ApplyGlobalFlags(v *viper.Viper, flags *config.GlobalFlags) {
	flags.LogLevel = v.GetString(FlagLogLevel)
	flags.Verbose = v.GetBool(FlagVerbose)
	flags.JSON = v.GetBool(FlagJSON)
	flags.DryRun = v.GetBool(FlagDryRun)
}

// ApplyCreateFlags copies the resolved creation settings back into flags
func ApplyCreateFlags(v *viper.Viper, flags *config.CreateFlags) {
	flags.DisplaySecret = v.GetBool(FlagDisplaySecret)
	flags.Shorten = v.GetBool(FlagShorten)
	flags.Secret = v.GetBool(FlagSecret)
	flags.Expires = v.GetString(FlagExpires)
}

// ApplyReceiptFlags copies the resolved sink settings back into cfg
func ApplyReceiptFlags(v *viper.Viper, cfg *config.ReceiptConfig) {
	cfg.Webhook.URL = v.GetString("webhook-url")
	cfg.Webhook.Method = v.GetString("webhook-method")
	cfg.Webhook.AuthType = v.GetString("webhook-auth-type")
	cfg.Webhook.AuthToken = v.GetString("webhook-auth-token")
	cfg.Webhook.Retries = v.GetInt("webhook-retries")
	cfg.Webhook.RetryDelay = v.GetString("webhook-retry-delay")
	cfg.Webhook.Timeout = v.GetString("webhook-timeout")
	cfg.Upload.Provider = v.GetString("upload-provider")
}

// NewLogger builds the console logger written to w
func NewLogger(level string, verbose bool, w io.Writer) (zerolog.Logger, error) {
	if verbose {
		level = zerolog.LevelDebugValue
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

// ParseOptionalExpiry parses an expiry flag; empty means unset
func ParseOptionalExpiry(raw string) (*envsh.Expiry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	expiry, err := envsh.ParseExpiry(raw)
	if err != nil {
		return nil, err
	}
	return &expiry, nil
}
