package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/chanlic/license-console/internal/logger"
	"github.com/chanlic/license-console/internal/storage"
	"github.com/chanlic/license-console/pkg/apiclient"
	"github.com/chanlic/license-console/pkg/publishers"
)

// Auditor receives one event per mutating action that reached the server.
type Auditor interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deps are the collaborators a Service is built from. Store, Audit and Log
// may be nil.
type Deps struct {
	API      *apiclient.Console
	Store    storage.Store
	Audit    Auditor
	Confirm  Confirmer
	Operator string
	Log      logger.Logger
}

// Service runs admin actions and records the rendered outcome of each in its
// result panel.
type Service struct {
	api      *apiclient.Console
	store    storage.Store
	audit    Auditor
	confirm  Confirmer
	operator string
	log      logger.Logger
}

// NewService wires a Service. A nil Confirmer declines every prompt.
func NewService(d Deps) (*Service, error) {
	if d.API == nil {
		return nil, fmt.Errorf("console api must not be nil")
	}
	if d.Store == nil {
		var err error
		if d.Store, err = storage.NewStore("none", "", storage.Options{}); err != nil {
			return nil, err
		}
	}
	if d.Log == nil {
		d.Log = &logger.NopLogger{}
	}
	return &Service{
		api:      d.API,
		store:    d.Store,
		audit:    d.Audit,
		confirm:  d.Confirm,
		operator: d.Operator,
		log:      d.Log,
	}, nil
}

// action describes one admin call and where its outcome goes.
type action struct {
	panel    string
	mutating bool
	input    any
	call     func(ctx context.Context) (apiclient.Envelope, error)
	// render replaces RenderEnvelope for successful calls when set.
	render func(apiclient.Envelope) (string, error)
}

// run executes a, renders the outcome into the panel and returns the text
// together with the call's own error.
func (s *Service) run(ctx context.Context, a action) (string, error) {
	env, err := a.call(ctx)

	var text string
	if err != nil {
		text = RenderFailure(err)
		fields := map[string]any{
			"panel": a.panel,
			"error": err.Error(),
		}
		if apiclient.IsTransport(err) {
			s.log.ErrorObj("license server unreachable", "console_action", fields)
		} else {
			s.log.WarnObj("console action rejected", "console_action", fields)
		}
	} else {
		text = RenderEnvelope(env)
		if a.render != nil {
			if rendered, rerr := a.render(env); rerr == nil {
				text = rendered
			} else {
				s.log.WarnObj("custom rendering failed; showing raw result", "console_render", map[string]any{
					"panel": a.panel,
					"error": rerr.Error(),
				})
			}
		}
		s.log.DebugObj("console action resolved", "console_action", map[string]any{
			"panel":  a.panel,
			"status": env.Status,
		})
	}

	s.record(a.panel, text)

	var ve *apiclient.ValidationError
	if a.mutating && !errors.As(err, &ve) {
		s.publish(ctx, a, env, err)
	}
	return text, err
}

func (s *Service) record(panel, text string) {
	if err := s.store.Put(panel, text); err != nil {
		s.log.WarnObj("store panel result failed", "console_store_error", map[string]any{
			"panel": panel,
			"error": err.Error(),
		})
	}
}

func (s *Service) publish(ctx context.Context, a action, env apiclient.Envelope, callErr error) {
	if s.audit == nil {
		return
	}
	evt := publishers.NewEvent(a.panel, s.operator, a.input)
	if callErr != nil {
		status := 0
		var re *apiclient.ResponseError
		if errors.As(callErr, &re) {
			status = re.Status
		}
		evt = evt.Reject(status, apiclient.FailurePayload(callErr))
	} else {
		evt = evt.Resolve(env.Status, env.Value)
	}

	delivered, err := s.audit.Publish(ctx, evt)
	if err != nil {
		s.log.WarnObj("audit publish failed", "audit_error", map[string]any{
			"event_id":  evt.ID,
			"action":    evt.Action,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}

// Devices lists devices with their latest license.
func (s *Service) Devices(ctx context.Context, includeExpired bool) (string, error) {
	return s.run(ctx, action{
		panel: PanelDevices,
		call: func(ctx context.Context) (apiclient.Envelope, error) {
			return s.api.ListDevices(ctx, includeExpired)
		},
	})
}

// DevicesTable is Devices rendered as a table.
func (s *Service) DevicesTable(ctx context.Context, includeExpired bool) (string, error) {
	return s.run(ctx, action{
		panel: PanelDevices,
		call: func(ctx context.Context) (apiclient.Envelope, error) {
			return s.api.ListDevices(ctx, includeExpired)
		},
		render: DeviceTable,
	})
}

// Channels lists every channel.
func (s *Service) Channels(ctx context.Context) (string, error) {
	return s.run(ctx, action{
		panel: PanelChannels,
		call:  s.api.ListChannels,
	})
}

// ChannelsTable is Channels rendered as a table.
func (s *Service) ChannelsTable(ctx context.Context) (string, error) {
	return s.run(ctx, action{
		panel:  PanelChannels,
		call:   s.api.ListChannels,
		render: ChannelTable,
	})
}

// InitDB initializes the backend schema.
func (s *Service) InitDB(ctx context.Context) (string, error) {
	return s.run(ctx, action{
		panel:    PanelInitDB,
		mutating: true,
		call:     s.api.InitDB,
	})
}

// AddChannel creates a channel.
func (s *Service) AddChannel(ctx context.Context, in apiclient.ChannelCreate) (string, error) {
	return s.run(ctx, action{
		panel:    PanelAddChannel,
		mutating: true,
		input:    in.Normalize(),
		call: func(ctx context.Context) (apiclient.Envelope, error) {
			return s.api.CreateChannel(ctx, in)
		},
	})
}

// DeleteChannel removes a channel by id and/or name.
func (s *Service) DeleteChannel(ctx context.Context, ref apiclient.ChannelRef) (string, error) {
	return s.run(ctx, action{
		panel:    PanelDeleteChannel,
		mutating: true,
		input:    map[string]any{"channel_id": ref.ID, "channel_name": ref.Name},
		call: func(ctx context.Context) (apiclient.Envelope, error) {
			return s.api.DeleteChannel(ctx, ref)
		},
	})
}

// DeleteDevice removes a device after the operator confirms. A declined
// prompt records Cancelled and sends nothing.
func (s *Service) DeleteDevice(ctx context.Context, ref apiclient.DeviceRef, force bool) (string, error) {
	if err := s.api.CheckDeviceRef(ref); err != nil {
		text := RenderFailure(err)
		s.record(PanelDeleteDevice, text)
		return text, err
	}

	ok := false
	if s.confirm != nil {
		var err error
		if ok, err = s.confirm.Confirm(ctx, deleteDeviceMessage(force)); err != nil {
			return "", fmt.Errorf("confirm delete device: %w", err)
		}
	}
	if !ok {
		s.record(PanelDeleteDevice, Cancelled)
		return Cancelled, nil
	}

	return s.run(ctx, action{
		panel:    PanelDeleteDevice,
		mutating: true,
		input:    map[string]any{"device_id": ref.ID, "device_id_str": ref.DeviceID, "force": force},
		call: func(ctx context.Context) (apiclient.Envelope, error) {
			return s.api.DeleteDevice(ctx, ref, force)
		},
	})
}

// EditChannel applies a partial update to a channel.
func (s *Service) EditChannel(ctx context.Context, id int64, patch apiclient.ChannelPatch) (string, error) {
	return s.run(ctx, action{
		panel:    PanelEditChannel,
		mutating: true,
		input:    map[string]any{"channel_id": id, "changes": patch.Normalize()},
		call: func(ctx context.Context) (apiclient.Envelope, error) {
			return s.api.EditChannel(ctx, id, patch)
		},
	})
}

// UpdateLicenseStatus changes the status of one license.
func (s *Service) UpdateLicenseStatus(ctx context.Context, in apiclient.LicenseStatusUpdate) (string, error) {
	return s.run(ctx, action{
		panel:    PanelLicenseStatus,
		mutating: true,
		input:    map[string]any{"license_id": in.LicenseID, "new_status": in.NewStatus},
		call: func(ctx context.Context) (apiclient.Envelope, error) {
			return s.api.UpdateLicenseStatus(ctx, in)
		},
	})
}

// Copy returns the last text recorded for panel, or NotRun when the panel has
// no live result.
func (s *Service) Copy(panel string) (string, error) {
	if !KnownPanel(panel) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPanel, panel)
	}
	res, ok, err := s.store.Get(panel)
	if err != nil {
		return "", fmt.Errorf("read panel %s: %w", panel, err)
	}
	if !ok {
		return NotRun, nil
	}
	return res.Text, nil
}

// Clear drops the delete-channel result.
func (s *Service) Clear() error {
	if err := s.store.Delete(PanelDeleteChannel); err != nil {
		return fmt.Errorf("clear panel %s: %w", PanelDeleteChannel, err)
	}
	return nil
}
