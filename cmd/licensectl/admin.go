package main

import (
	"fmt"
	"strconv"

	"github.com/chanlic/license-console/internal/console"
	"github.com/chanlic/license-console/internal/credentials"
	"github.com/chanlic/license-console/pkg/apiclient"
	"github.com/spf13/cobra"
)

func newInitDBCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the license server's tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			return c.emit(svc.InitDB(cmd.Context()))
		},
	}
}

func newLicenseCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Manage licenses",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status <license-id> <status>",
		Short: "Set the status of a license (e.g. active, revoked)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid license id %q", args[0])
			}
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			return c.emit(svc.UpdateLicenseStatus(cmd.Context(), apiclient.LicenseStatusUpdate{
				LicenseID: id,
				NewStatus: args[1],
			}))
		},
	})
	return cmd
}

func newCopyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "copy <panel>",
		Short:     "Print the last stored result of a panel",
		Args:      cobra.ExactArgs(1),
		ValidArgs: console.Panels(),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			text, err := svc.Copy(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, text)
			return nil
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset the delete-channel result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, console.NotRun)
			return nil
		},
	}
}

func newHashPasswordCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the SHA-256 hex digest the server expects for an admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			hash, err := credentials.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, hash)
			return nil
		},
	}
}

func newFetchCmd(c *cli) *cobra.Command {
	var (
		method string
		data   string
	)
	cmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "Send one raw request to the API and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd)
			if err != nil {
				return err
			}
			opts := &apiclient.Options{Method: method}
			if data != "" {
				opts.Body = data
				opts.Headers = map[string]string{"Content-Type": "application/json"}
			}
			env, err := rt.Client().FetchJSON(cmd.Context(), args[0], opts)
			if err != nil {
				return c.emit(console.RenderFailure(err), err)
			}
			return c.emit(console.RenderEnvelope(env), nil)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "raw JSON request body")
	return cmd
}
