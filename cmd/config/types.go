package config

// GlobalFlags holds flags shared by every command
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	Verbose    bool
	JSON       bool
	DryRun     bool
}

// CreateFlags holds flags for creating a new URL
type CreateFlags struct {
	DisplaySecret bool
	Shorten       bool
	Secret        bool
	Expires       string // hours or epoch milliseconds
}

// ManageFlags holds flags for modifying an existing URL
type ManageFlags struct {
	Expires string
	Delete  bool
}

// UploadConfig holds receipt archive flags
type UploadConfig struct {
	Provider   string
	Config     string
	ConfigKV   []string
	ConfigFile string
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	// Direct configuration flags
	URL        string
	Method     string // HTTP method (GET, POST, PUT, PATCH, DELETE)
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string

	// Alternative configuration methods
	Config     string   // JSON string configuration
	ConfigKV   []string // Key-value pairs
	ConfigFile string   // Path to JSON config file
}

// ReceiptConfig groups every receipt sink
type ReceiptConfig struct {
	Webhook WebhookConfig
	Upload  UploadConfig
}
