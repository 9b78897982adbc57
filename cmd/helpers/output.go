package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jessicarod7/envsh/cmd/config"
	"github.com/jessicarod7/envsh/internal/envsh"
	"github.com/jessicarod7/envsh/internal/output"
	"github.com/jessicarod7/envsh/internal/upload"
	"github.com/jessicarod7/envsh/internal/webhook"
)

// Receipt operations
const (
	OperationCreate = "create"
	OperationManage = "manage"
)

// CreateReceipt summarizes a creation request and its response
func CreateReceipt(req *envsh.CreateRequest, resp *envsh.Response) *output.Receipt {
	field, _ := req.PrimaryField()
	receipt := &output.Receipt{
		ID:         uuid.NewString(),
		Operation:  OperationCreate,
		Target:     req.Target.String(),
		Field:      field,
		StatusCode: resp.StatusCode,
		Success:    resp.Success(),
		Body:       resp.Body,
		Secret:     req.Secret,
	}
	if req.Expires != nil {
		receipt.Expires = req.Expires.String()
	}

	if req.DisplaySecret {
		if resp.ExpiresAt != nil {
			ms := resp.ExpiresAt.UnixMilli()
			receipt.ExpiresAt = &ms
			receipt.ExpiresAtTime = resp.ExpiresAt.Format(time.RFC3339Nano)
		}
		receipt.Token = resp.Token
	}

	return receipt
}

// ManageReceipt summarizes a management request and its response
func ManageReceipt(req *envsh.ManageRequest, resp *envsh.Response) *output.Receipt {
	receipt := &output.Receipt{
		ID:         uuid.NewString(),
		Operation:  OperationManage,
		Target:     req.URL.String(),
		Field:      req.Action(),
		StatusCode: resp.StatusCode,
		Success:    resp.Success(),
		Body:       resp.Body,
	}
	if req.Expires != nil {
		receipt.Expires = req.Expires.String()
	}
	return receipt
}

// PrintReceipt writes the human readable result
func PrintReceipt(w io.Writer, r *output.Receipt) {
	if r.Operation == OperationManage {
		if r.Success {
			fmt.Fprintln(w, "Change accepted!")
		} else {
			fmt.Fprintf(w, "[%d] %s\n", r.StatusCode, r.Body)
		}
		return
	}

	if r.Success {
		fmt.Fprint(w, "Succesful! ")
	} else {
		fmt.Fprintf(w, "[%d] ", r.StatusCode)
	}
	fmt.Fprintln(w, r.Body)

	if r.ExpiresAt != nil {
		fmt.Fprintf(w, "Expires at %s\n", envsh.FormatExpiry(time.UnixMilli(*r.ExpiresAt)))
	}
	if r.Token != "" {
		fmt.Fprintf(w, "X-Token: %s\n", r.Token)
	}
}

// OutputJSON marshals and prints the receipt as a single JSON line
func OutputJSON(w io.Writer, r *output.Receipt) error {
	jsonOutput, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	fmt.Fprintln(w, string(jsonOutput))
	return nil
}

// Sinks are the optional receipt destinations
type Sinks struct {
	Webhook *webhook.Client
	Upload  upload.Provider
}

// SetupSinks validates and builds every configured sink
func SetupSinks(cfg *config.ReceiptConfig, logger zerolog.Logger) (*Sinks, error) {
	sinks := &Sinks{}

	webhookConfig, retryConfig, err := ParseWebhookConfig(&cfg.Webhook)
	if err != nil {
		return nil, err
	}
	if webhookConfig != nil {
		sinks.Webhook = webhook.NewClient(webhookConfig, retryConfig, logger)
	}

	provider, err := SetupUploadProvider(&cfg.Upload)
	if err != nil {
		return nil, err
	}
	sinks.Upload = provider

	return sinks, nil
}

// Deliver sends the receipt to every sink. Failures are logged and recorded
// on the receipt, never returned.
func (s *Sinks) Deliver(ctx context.Context, r *output.Receipt, logger zerolog.Logger) {
	if s == nil {
		return
	}

	payload := r.ForDelivery()

	if s.Webhook != nil {
		if err := s.Webhook.Send(ctx, &payload); err != nil {
			logger.Warn().Err(err).Msg("webhook delivery failed")
			r.WebhookError = err.Error()
		} else {
			r.WebhookSent = true
		}
	}

	if s.Upload != nil {
		name := ReceiptName(r, time.Now())
		if err := upload.UploadJSON(ctx, s.Upload, name, &payload); err != nil {
			logger.Warn().Err(err).Str("provider", s.Upload.Name()).Msg("receipt archive failed")
			r.ArchiveError = err.Error()
		} else {
			logger.Debug().Str("provider", s.Upload.Name()).Str("object", name).Msg("receipt archived")
			r.Archived = name
		}
	}
}

// Report prints the receipt and delivers it to all sinks. Text is printed
// before delivery starts; JSON waits for it so the delivery status is included.
func Report(ctx context.Context, w io.Writer, r *output.Receipt, sinks *Sinks, jsonOutput bool, logger zerolog.Logger) error {
	if !jsonOutput {
		PrintReceipt(w, r)
		sinks.Deliver(ctx, r, logger)
		return nil
	}

	sinks.Deliver(ctx, r, logger)
	return OutputJSON(w, r)
}
