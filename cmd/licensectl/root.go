package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chanlic/license-console/internal/app"
	"github.com/chanlic/license-console/internal/config"
	"github.com/chanlic/license-console/internal/console"
	"github.com/chanlic/license-console/internal/logger"
	"github.com/spf13/cobra"
)

// errRejected marks a failed action whose payload was already printed.
var errRejected = errors.New("request rejected")

// cli carries what every command needs. The runtime is built on first use so
// offline commands never open the store.
type cli struct {
	cfg *config.Config
	log logger.Logger
	in  io.Reader
	out io.Writer

	yes bool
	rt  *app.Console
}

func newCLI(cfg *config.Config, log logger.Logger, in io.Reader, out io.Writer) *cli {
	return &cli{cfg: cfg, log: log, in: in, out: out}
}

func (c *cli) runtime(cmd *cobra.Command) (*app.Console, error) {
	if c.rt != nil {
		return c.rt, nil
	}
	var confirm console.Confirmer = promptConfirmer{in: c.in, out: cmd.ErrOrStderr()}
	if c.yes {
		confirm = console.AlwaysConfirm
	}
	rt, err := app.NewConsole(cmd.Context(), c.cfg, c.log, confirm)
	if err != nil {
		return nil, err
	}
	c.rt = rt
	return rt, nil
}

func (c *cli) service(cmd *cobra.Command) (*console.Service, error) {
	rt, err := c.runtime(cmd)
	if err != nil {
		return nil, err
	}
	return rt.Service(), nil
}

// emit prints an action's rendered text. A rejected action turns into
// errRejected so the process exits non-zero without repeating the payload.
func (c *cli) emit(text string, err error) error {
	fmt.Fprintln(c.out, text)
	if err != nil {
		return errRejected
	}
	return nil
}

func (c *cli) close() {
	if c.rt != nil {
		_ = c.rt.Close()
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "licensectl",
		Short: "Admin console for the channel license server",
		Long: `licensectl drives the license server's admin API: list devices and
channels, manage channels, delete devices and change license status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)

	root.AddCommand(
		newDevicesCmd(c),
		newDeviceCmd(c),
		newChannelsCmd(c),
		newChannelCmd(c),
		newLicenseCmd(c),
		newInitDBCmd(c),
		newCopyCmd(c),
		newClearCmd(c),
		newHashPasswordCmd(c),
		newFetchCmd(c),
	)
	return root
}
