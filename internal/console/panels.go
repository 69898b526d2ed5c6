package console

import "errors"

// Result panels, one per admin action.
const (
	PanelDevices       = "devices"
	PanelChannels      = "channels"
	PanelAddChannel    = "add_channel"
	PanelDeleteChannel = "delete_channel"
	PanelDeleteDevice  = "delete_device"
	PanelEditChannel   = "edit_channel"
	PanelInitDB        = "init_db"
	PanelLicenseStatus = "license_status"
)

const (
	// NotRun is shown by a panel with no live result.
	NotRun = "not run"
	// Cancelled is shown when a confirmation was declined.
	Cancelled = "cancelled"
)

var ErrUnknownPanel = errors.New("unknown panel")

var panels = map[string]struct{}{
	PanelDevices:       {},
	PanelChannels:      {},
	PanelAddChannel:    {},
	PanelDeleteChannel: {},
	PanelDeleteDevice:  {},
	PanelEditChannel:   {},
	PanelInitDB:        {},
	PanelLicenseStatus: {},
}

// Panels lists every known panel name.
func Panels() []string {
	return []string{
		PanelDevices, PanelChannels, PanelAddChannel, PanelDeleteChannel,
		PanelDeleteDevice, PanelEditChannel, PanelInitDB, PanelLicenseStatus,
	}
}

// KnownPanel reports whether name is a result panel.
func KnownPanel(name string) bool {
	_, ok := panels[name]
	return ok
}
