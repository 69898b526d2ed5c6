// Package domain holds the shapes the license backend returns.
package domain

// Channel groups devices under a shared capacity and license duration policy.
type Channel struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	MaxDevices          int     `json:"max_devices"`
	LicenseDurationDays int     `json:"license_duration_days"`
	Description         *string `json:"description"`
	CreatedAt           *string `json:"created_at"`
}

// License is a single issued license; timestamps are ISO-8601 strings as sent by the server.
type License struct {
	ID         int64   `json:"id"`
	LicenseKey string  `json:"license_key"`
	Version    string  `json:"version"`
	RequestIP  *string `json:"request_ip"`
	Status     string  `json:"status"`
	CreatedAt  *string `json:"created_at"`
	ExpiresAt  *string `json:"expires_at"`
	DeviceID   int64   `json:"device_id"`
}

// Device is an end-user client with its channel and latest license, if any.
type Device struct {
	ID            int64    `json:"id"`
	DeviceID      string   `json:"device_id"`
	Channel       *Channel `json:"channel"`
	CreatedAt     *string  `json:"created_at"`
	LatestLicense *License `json:"latest_license"`
}

type DeviceList struct {
	Devices []Device `json:"devices"`
}

type ChannelList struct {
	Channels []Channel `json:"channels"`
}
