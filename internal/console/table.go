package console

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/chanlic/license-console/internal/domain"
	"github.com/chanlic/license-console/pkg/apiclient"
)

const none = "-"

// DeviceTable renders a device listing as aligned columns, one row per device.
func DeviceTable(env apiclient.Envelope) (string, error) {
	var list domain.DeviceList
	if err := env.Decode(&list); err != nil {
		return "", fmt.Errorf("decode devices: %w", err)
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDEVICE\tCHANNEL\tLICENSE\tSTATUS\tEXPIRES")
	for _, d := range list.Devices {
		channel := none
		if d.Channel != nil {
			channel = d.Channel.Name
		}
		key, status, expires := none, none, none
		if l := d.LatestLicense; l != nil {
			key, status = l.LicenseKey, l.Status
			expires = deref(l.ExpiresAt)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.DeviceID, channel, key, status, expires)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// ChannelTable renders a channel listing as aligned columns.
func ChannelTable(env apiclient.Envelope) (string, error) {
	var list domain.ChannelList
	if err := env.Decode(&list); err != nil {
		return "", fmt.Errorf("decode channels: %w", err)
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMAX DEVICES\tDAYS\tDESCRIPTION")
	for _, c := range list.Channels {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", c.ID, c.Name, c.MaxDevices, c.LicenseDurationDays, deref(c.Description))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return none
	}
	return *s
}
