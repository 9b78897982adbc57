package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jessicarod7/envsh/cmd/helpers"
	"github.com/jessicarod7/envsh/internal/envsh"
)

func (o *options) manageCmd() *cobra.Command {
	m := &cobra.Command{
		Use:   "manage <URL> <TOKEN>",
		Short: "Change the expiry of a shared URL or delete it",
		Long: `Modify an entry created on envs.sh. The URL must start with https://envs.sh
and TOKEN is the X-Token printed by "envsh --display-secret".

Exactly one of --expires or --delete is required.`,
		Example: `  envsh manage https://envs.sh/abc.txt tok123 --delete
  envsh manage https://envs.sh/abc.txt tok123 -e 48`,
		Args: cobra.ExactArgs(2),
		RunE: o.runManage,
	}

	helpers.SetupManageFlags(m.Flags(), &o.manage)
	m.MarkFlagsMutuallyExclusive(helpers.FlagExpires, helpers.FlagDelete)
	m.MarkFlagsOneRequired(helpers.FlagExpires, helpers.FlagDelete)

	return m
}

func (o *options) runManage(cmd *cobra.Command, args []string) error {
	u, err := envsh.ParseManageURL(args[0])
	if err != nil {
		return err
	}

	expires, err := helpers.ParseOptionalExpiry(o.manage.Expires)
	if err != nil {
		return fmt.Errorf("invalid --expires: %w", err)
	}

	req := &envsh.ManageRequest{
		URL:     u,
		Token:   args[1],
		Expires: expires,
		Delete:  o.manage.Delete,
	}
	form, err := req.Form()
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	sinks, err := helpers.SetupSinks(&o.receipt, o.logger)
	if err != nil {
		return err
	}

	if o.global.DryRun {
		helpers.PrintRequestInfo(cmd.ErrOrStderr(), u.String(), form)
		return nil
	}

	resp, err := o.client().Manage(cmd.Context(), req)
	if err != nil {
		return err
	}

	receipt := helpers.ManageReceipt(req, resp)
	return helpers.Report(cmd.Context(), cmd.OutOrStdout(), receipt, sinks, o.global.JSON, o.logger)
}
