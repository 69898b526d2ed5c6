package main

import (
	"github.com/chanlic/license-console/pkg/apiclient"
	"github.com/spf13/cobra"
)

func newDevicesCmd(c *cli) *cobra.Command {
	var includeExpired, table bool
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices with their latest license",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			if table {
				return c.emit(svc.DevicesTable(cmd.Context(), includeExpired))
			}
			return c.emit(svc.Devices(cmd.Context(), includeExpired))
		},
	}
	cmd.Flags().BoolVar(&includeExpired, "include-expired", false, "include devices whose latest license has expired")
	cmd.Flags().BoolVar(&table, "table", false, "print a table instead of JSON")
	return cmd
}

func newDeviceCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage a single device",
	}

	var (
		ref   apiclient.DeviceRef
		force bool
	)
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a device by numeric id or device id string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			return c.emit(svc.DeleteDevice(cmd.Context(), ref, force))
		},
	}
	del.Flags().Int64Var(&ref.ID, "id", 0, "numeric device id")
	del.Flags().StringVar(&ref.DeviceID, "device-id", "", "device id string")
	del.Flags().BoolVar(&force, "force", false, "also delete the device's licenses")
	del.Flags().BoolVarP(&c.yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(del)
	return cmd
}
