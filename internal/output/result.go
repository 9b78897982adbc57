package output

// Receipt summarizes one request to the service
type Receipt struct {
	ID         string `json:"id"`        // random, stable across webhook retries
	Operation  string `json:"operation"` // create or manage
	Target     string `json:"target"`
	Field      string `json:"field"` // file, url, shorten, delete or expires
	StatusCode int    `json:"status_code"`
	Success    bool   `json:"success"`
	Body       string `json:"body"`
	Secret     bool   `json:"secret,omitempty"`
	Expires    string `json:"expires,omitempty"` // as sent: hours or epoch ms

	// Only filled when the caller asked to see the secret
	ExpiresAt     *int64 `json:"expires_at,omitempty"` // epoch ms
	ExpiresAtTime string `json:"expires_at_time,omitempty"`
	Token         string `json:"token,omitempty"`

	// Delivery status (only in local output, not sent to sinks)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
	Archived     string `json:"archived,omitempty"`
	ArchiveError string `json:"archive_error,omitempty"`
}

// ForDelivery returns a copy without local delivery status
func (r Receipt) ForDelivery() Receipt {
	r.WebhookSent = false
	r.WebhookError = ""
	r.Archived = ""
	r.ArchiveError = ""
	return r
}
