package console

import "context"

const (
	confirmForceDelete = "This will force delete the device and all of its licenses. Continue?"
	confirmDelete      = "Delete this device? The server refuses devices that still hold licenses unless force is set."
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

func deleteDeviceMessage(force bool) string {
	if force {
		return confirmForceDelete
	}
	return confirmDelete
}
