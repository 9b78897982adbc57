package helpers

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jessicarod7/envsh/cmd/config"
	"github.com/jessicarod7/envsh/internal/confmap"
	"github.com/jessicarod7/envsh/internal/output"
	"github.com/jessicarod7/envsh/internal/upload"
)

// BuildUploadConfig builds upload configuration from all sources
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	uploadConf, err := confmap.Build(confmap.Sources{
		EnvPrefix: "ENVSH_UPLOAD_CONFIG",
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	return uploadConf, nil
}

// SetupUploadProvider creates and configures an upload provider, or returns
// nil when none is requested
func SetupUploadProvider(cfg *config.UploadConfig) (upload.Provider, error) {
	if cfg.Provider == "" {
		return nil, nil
	}

	uploadConf, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := upload.NewProvider(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(uploadConf); err != nil {
		return nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, nil
}

// ReceiptName picks the object name a receipt is archived under. Created
// entries use the path of the hosted URL; management receipts add the
// action. Anything else falls back to the receipt ID, or a timestamp.
func ReceiptName(r *output.Receipt, now time.Time) string {
	source := r.Body
	if r.Operation == OperationManage {
		source = r.Target
	}

	if u, err := url.Parse(source); err == nil && u.Host != "" {
		if name := strings.Trim(path.Clean("/"+u.Path), "/"); name != "" {
			name = strings.ReplaceAll(name, "/", "_")
			if r.Operation == OperationManage {
				return name + "." + r.Field + ".json"
			}
			return name + ".json"
		}
	}

	if r.ID != "" {
		return fmt.Sprintf("envsh-%s-%s.json", r.Operation, r.ID)
	}
	return fmt.Sprintf("envsh-%s-%d.json", r.Operation, now.UnixMilli())
}
