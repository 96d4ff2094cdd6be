package onboarding

import "fmt"

// CredentialError means every credential candidate was rejected while
// registering a control component. Err joins the per-candidate failures.
type CredentialError struct {
	DeviceIP string
	Err      error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("failed to authenticate to %s with default and supplied passwords", e.DeviceIP)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// ResolutionError means a device registered successfully but its identifier
// could not be recovered from the inventory afterwards. This is an
// orchestration problem, not a credential one.
type ResolutionError struct {
	DeviceIP string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("device %s registered but its identifier could not be resolved", e.DeviceIP)
}

// DeviceNotFoundError means a named device is absent from the remote
// inventory. It aborts the current batch.
type DeviceNotFoundError struct {
	Serial string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("edge device with serial %s not found in inventory; "+
		"ensure the device has completed zero-touch discovery and appears in the device inventory", e.Serial)
}

// TimeoutError means a readiness or certificate poll ran out of time with
// devices still pending.
type TimeoutError struct {
	Pending int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for %d device(s) to complete onboarding", e.Pending)
}

// TemplateNotFoundError means no device template carries the given name.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("device template %q not found on the management plane", e.Name)
}

// ConfigGroupNotFoundError means no configuration group carries the given
// name. Config groups require management plane version 20.12 or higher.
type ConfigGroupNotFoundError struct {
	Name string
}

func (e *ConfigGroupNotFoundError) Error() string {
	return fmt.Sprintf("configuration group %q not found on the management plane; "+
		"config groups require version 20.12 or higher", e.Name)
}

// AttachmentError is a failed structural attachment call or an asynchronous
// attachment job that reported failure or timed out.
type AttachmentError struct {
	Message string
	Err     error
}

func (e *AttachmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AttachmentError) Unwrap() error { return e.Err }
