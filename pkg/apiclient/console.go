package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Console binds the admin API routes to the adapter. Every method returns the
// raw outcome of a single request; inputs that fail validation never reach the
// network.
type Console struct {
	client   *Client
	prefix   string
	validate *validator.Validate
}

// NewConsole builds the route bindings under prefix (e.g. "/api").
func NewConsole(client *Client, prefix string) *Console {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix != "" {
		prefix = "/" + prefix
	}
	return &Console{client: client, prefix: prefix, validate: newValidator()}
}

func (c *Console) path(p string, query url.Values) string {
	out := c.prefix + p
	if len(query) > 0 {
		out += "?" + query.Encode()
	}
	return out
}

// ListDevices fetches all devices with their latest license.
func (c *Console) ListDevices(ctx context.Context, includeExpired bool) (Envelope, error) {
	q := url.Values{}
	q.Set("include_expired", strconv.FormatBool(includeExpired))
	return c.client.FetchJSON(ctx, c.path("/devices", q), nil)
}

// InitDB asks the backend to create its tables.
func (c *Console) InitDB(ctx context.Context) (Envelope, error) {
	return c.client.FetchJSON(ctx, c.path("/init_db", nil), &Options{Method: http.MethodPost})
}

// CreateChannel adds a channel. Unset numbers fall back to the console defaults.
func (c *Console) CreateChannel(ctx context.Context, in ChannelCreate) (Envelope, error) {
	in = in.Normalize()
	if err := c.validate.Struct(in); err != nil {
		return Envelope{}, validationError("create channel", err)
	}
	return c.client.FetchJSON(ctx, c.path("/channels", nil), &Options{
		Method: http.MethodPost,
		Body:   in,
	})
}

// DeleteChannel removes a channel by id or name. An empty ref is sent as-is
// and rejected by the server.
func (c *Console) DeleteChannel(ctx context.Context, ref ChannelRef) (Envelope, error) {
	q := url.Values{}
	if ref.ID != 0 {
		q.Set("channel_id", strconv.FormatInt(ref.ID, 10))
	}
	if name := strings.TrimSpace(ref.Name); name != "" {
		q.Set("channel_name", name)
	}
	return c.client.FetchJSON(ctx, c.path("/channels", q), &Options{Method: http.MethodDelete})
}

// CheckDeviceRef validates ref without sending anything.
func (c *Console) CheckDeviceRef(ref DeviceRef) error {
	ref.DeviceID = strings.TrimSpace(ref.DeviceID)
	if err := c.validate.Struct(ref); err != nil {
		return validationError("delete device", err)
	}
	return nil
}

// DeleteDevice removes a device. Without force the server refuses devices that still hold licenses.
func (c *Console) DeleteDevice(ctx context.Context, ref DeviceRef, force bool) (Envelope, error) {
	if err := c.CheckDeviceRef(ref); err != nil {
		return Envelope{}, err
	}
	ref.DeviceID = strings.TrimSpace(ref.DeviceID)

	q := url.Values{}
	if ref.ID != 0 {
		q.Set("device_id", strconv.FormatInt(ref.ID, 10))
	}
	if ref.DeviceID != "" {
		q.Set("device_id_str", ref.DeviceID)
	}
	if force {
		q.Set("force", "true")
	}
	return c.client.FetchJSON(ctx, c.path("/devices", q), &Options{Method: http.MethodDelete})
}

// EditChannel applies a partial update to channel id.
func (c *Console) EditChannel(ctx context.Context, id int64, patch ChannelPatch) (Envelope, error) {
	if id <= 0 {
		return Envelope{}, &ValidationError{Op: "edit channel", Reason: "channel_id is required"}
	}
	patch = patch.Normalize()
	if err := c.validate.Struct(patch); err != nil {
		return Envelope{}, validationError("edit channel", err)
	}
	return c.client.FetchJSON(ctx, c.path("/channels/"+strconv.FormatInt(id, 10), nil), &Options{
		Method: http.MethodPut,
		Body:   patch,
	})
}

// ListChannels fetches every channel ordered by id.
func (c *Console) ListChannels(ctx context.Context) (Envelope, error) {
	return c.client.FetchJSON(ctx, c.path("/channels", nil), nil)
}

// UpdateLicenseStatus sets a license status such as "active" or "revoked".
func (c *Console) UpdateLicenseStatus(ctx context.Context, in LicenseStatusUpdate) (Envelope, error) {
	in.NewStatus = strings.TrimSpace(in.NewStatus)
	if err := c.validate.Struct(in); err != nil {
		return Envelope{}, validationError("update license status", err)
	}
	p := "/licenses/" + strconv.FormatInt(in.LicenseID, 10) + "/status"
	return c.client.FetchJSON(ctx, c.path(p, nil), &Options{
		Method: http.MethodPatch,
		Body:   in,
	})
}
