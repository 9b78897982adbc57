package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jessicarod7/envsh/cmd/config"
	"github.com/jessicarod7/envsh/cmd/helpers"
	"github.com/jessicarod7/envsh/internal/envsh"
)

// errDisplaySecretShorten is returned when both options arrive through the
// environment or config file, where cobra cannot see the conflict
var errDisplaySecretShorten = errors.New("--display-secret cannot be used with --shorten")

// options is the state shared by the root command and its subcommands
type options struct {
	httpClient *http.Client

	global  config.GlobalFlags
	create  config.CreateFlags
	manage  config.ManageFlags
	receipt config.ReceiptConfig

	v      *viper.Viper
	logger zerolog.Logger
}

// NewRootCmd builds the envsh command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(httpClient *http.Client) *cobra.Command {
	o := &options{httpClient: httpClient, logger: zerolog.Nop()}

	r := &cobra.Command{
		Use:   "envsh [flags] <FILE|URL>",
		Short: "Share files and URLs through envs.sh",
		Long: `envsh uploads a local file, mirrors a remote file or shortens a URL using
https://envs.sh and prints the resulting link.

Use "envsh manage" with the X-Token printed by --display-secret to change the
expiry of an entry or delete it.`,
		Example: `  envsh ./notes.txt
  envsh -S -e 24 ./report.pdf
  envsh --shorten https://example.com/a/very/long/path
  envsh -d https://example.com/image.png`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: o.setup,
		RunE:              o.runCreate,
	}

	helpers.SetupGlobalFlags(r.PersistentFlags(), &o.global)
	helpers.SetupReceiptFlags(r.PersistentFlags(), &o.receipt)
	helpers.SetupCreateFlags(r.Flags(), &o.create)
	r.MarkFlagsMutuallyExclusive(helpers.FlagDisplaySecret, helpers.FlagShorten)

	r.AddCommand(o.manageCmd())

	return r
}

// Execute runs the command tree and exits non-zero on error
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves configuration and the logger before any command runs
func (o *options) setup(cmd *cobra.Command, args []string) error {
	v, err := helpers.LoadConfig(cmd, o.global.ConfigFile)
	if err != nil {
		return err
	}
	o.v = v

	helpers.ApplyGlobalFlags(v, &o.global)
	helpers.ApplyReceiptFlags(v, &o.receipt)

	logger, err := helpers.NewLogger(o.global.LogLevel, o.global.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	o.logger = logger

	if file := v.ConfigFileUsed(); file != "" {
		o.logger.Debug().Str("file", file).Msg("loaded config file")
	}
	return nil
}

func (o *options) client() *envsh.Client {
	return envsh.NewClient(&envsh.Config{
		HTTPClient: o.httpClient,
		Logger:     o.logger,
	})
}

func (o *options) runCreate(cmd *cobra.Command, args []string) error {
	helpers.ApplyCreateFlags(o.v, &o.create)

	if o.create.DisplaySecret && o.create.Shorten {
		return errDisplaySecretShorten
	}

	target, err := envsh.ParseTarget(args[0])
	if err != nil {
		return err
	}

	expires, err := helpers.ParseOptionalExpiry(o.create.Expires)
	if err != nil {
		return fmt.Errorf("invalid --expires: %w", err)
	}

	req := &envsh.CreateRequest{
		Target:        target,
		Shorten:       o.create.Shorten,
		Secret:        o.create.Secret,
		Expires:       expires,
		DisplaySecret: o.create.DisplaySecret,
	}
	form, err := req.Form()
	if err != nil {
		return err
	}

	// Arguments are valid from here on
	cmd.SilenceUsage = true

	sinks, err := helpers.SetupSinks(&o.receipt, o.logger)
	if err != nil {
		return err
	}

	client := o.client()
	if o.global.DryRun {
		helpers.PrintRequestInfo(cmd.ErrOrStderr(), client.Endpoint(), form)
		return nil
	}

	resp, err := client.Create(cmd.Context(), req)
	if err != nil {
		return err
	}

	receipt := helpers.CreateReceipt(req, resp)
	return helpers.Report(cmd.Context(), cmd.OutOrStdout(), receipt, sinks, o.global.JSON, o.logger)
}
