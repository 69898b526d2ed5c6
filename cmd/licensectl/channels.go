package main

import (
	"fmt"
	"strconv"

	"github.com/chanlic/license-console/pkg/apiclient"
	"github.com/spf13/cobra"
)

func newChannelsCmd(c *cli) *cobra.Command {
	var table bool
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			if table {
				return c.emit(svc.ChannelsTable(cmd.Context()))
			}
			return c.emit(svc.Channels(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "print a table instead of JSON")
	return cmd
}

func newChannelCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Create, edit or delete a channel",
	}
	cmd.AddCommand(newChannelAddCmd(c), newChannelDeleteCmd(c), newChannelEditCmd(c))
	return cmd
}

func newChannelAddCmd(c *cli) *cobra.Command {
	var (
		in          apiclient.ChannelCreate
		description string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			in.Description = &description
			return c.emit(svc.AddChannel(cmd.Context(), in))
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "channel name")
	cmd.Flags().IntVar(&in.MaxDevices, "max-devices", 0, fmt.Sprintf("device capacity (default %d)", apiclient.DefaultMaxDevices))
	cmd.Flags().IntVar(&in.LicenseDurationDays, "days", 0, fmt.Sprintf("license duration in days (default %d)", apiclient.DefaultLicenseDurationDays))
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	return cmd
}

func newChannelDeleteCmd(c *cli) *cobra.Command {
	var ref apiclient.ChannelRef
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a channel by id and/or name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			return c.emit(svc.DeleteChannel(cmd.Context(), ref))
		},
	}
	cmd.Flags().Int64Var(&ref.ID, "id", 0, "channel id")
	cmd.Flags().StringVar(&ref.Name, "name", "", "channel name")
	return cmd
}

func newChannelEditCmd(c *cli) *cobra.Command {
	var (
		name        string
		maxDevices  int
		days        int
		description string
	)
	cmd := &cobra.Command{
		Use:   "edit <channel-id>",
		Short: "Update selected fields of a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid channel id %q", args[0])
			}
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}

			var patch apiclient.ChannelPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("max-devices") {
				patch.MaxDevices = &maxDevices
			}
			if flags.Changed("days") {
				patch.LicenseDurationDays = &days
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			return c.emit(svc.EditChannel(cmd.Context(), id, patch))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new channel name")
	cmd.Flags().IntVar(&maxDevices, "max-devices", 0, "new device capacity")
	cmd.Flags().IntVar(&days, "days", 0, "new license duration in days")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}
