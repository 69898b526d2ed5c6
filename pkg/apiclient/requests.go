package apiclient

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultMaxDevices          = 1000
	DefaultLicenseDurationDays = 30
)

// ChannelCreate is the body of POST /channels.
type ChannelCreate struct {
	Name                string  `json:"name" validate:"required"`
	MaxDevices          int     `json:"max_devices" validate:"gt=0"`
	LicenseDurationDays int     `json:"license_duration_days" validate:"gt=0"`
	Description         *string `json:"description"`
}

// Normalize trims the name, applies defaults for unset numbers and maps an
// empty description to null.
func (r ChannelCreate) Normalize() ChannelCreate {
	r.Name = strings.TrimSpace(r.Name)
	if r.MaxDevices == 0 {
		r.MaxDevices = DefaultMaxDevices
	}
	if r.LicenseDurationDays == 0 {
		r.LicenseDurationDays = DefaultLicenseDurationDays
	}
	if r.Description != nil && *r.Description == "" {
		r.Description = nil
	}
	return r
}

// ChannelPatch is the partial body of PUT /channels/{id}. Nil fields are
// omitted. Limits are sent as given; the server owns their range checks.
type ChannelPatch struct {
	Name                *string `json:"name,omitempty"`
	MaxDevices          *int    `json:"max_devices,omitempty"`
	LicenseDurationDays *int    `json:"license_duration_days,omitempty"`
	Description         *string `json:"description,omitempty"`
}

// Normalize drops blank name and description values.
func (p ChannelPatch) Normalize() ChannelPatch {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			p.Name = nil
		} else {
			p.Name = &name
		}
	}
	if p.Description != nil && *p.Description == "" {
		p.Description = nil
	}
	return p
}

// Empty reports whether the patch changes nothing.
func (p ChannelPatch) Empty() bool {
	return p.Name == nil && p.MaxDevices == nil && p.LicenseDurationDays == nil && p.Description == nil
}

// ChannelRef locates a channel for deletion. Zero values are left out of the query.
type ChannelRef struct {
	ID   int64
	Name string
}

// DeviceRef locates a device by numeric id or by its device id string.
type DeviceRef struct {
	ID       int64  `validate:"required_without=DeviceID"`
	DeviceID string `validate:"required_without=ID"`
}

// LicenseStatusUpdate is the body of PATCH /licenses/{id}/status.
type LicenseStatusUpdate struct {
	LicenseID int64  `json:"-" validate:"gt=0"`
	NewStatus string `json:"new_status" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		if sl.Current().Interface().(ChannelPatch).Empty() {
			sl.ReportError("", "fields", "Fields", "nonempty", "")
		}
	}, ChannelPatch{})
	return v
}

// validationError turns validator output into a ValidationError.
func validationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Op: op, Reason: err.Error()}
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, describeFieldError(fe))
	}
	return &ValidationError{Op: op, Reason: strings.Join(reasons, "; ")}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_without":
		return "device_id or device_id_str is required"
	case "nonempty":
		return "at least one field to update is required"
	case "gt":
		return fmt.Sprintf("%s must be > %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
