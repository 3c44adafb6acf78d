package record

import "fmt"

// DeviceEnumerationError reports that the platform audio host could not
// list input devices.
type DeviceEnumerationError struct {
	Err error
}

func (e *DeviceEnumerationError) Error() string {
	return fmt.Sprintf("enumerating audio devices failed: %v", e.Err)
}
func (e *DeviceEnumerationError) Unwrap() error { return e.Err }

// DeviceNotFoundError reports that no input device carries the requested name.
type DeviceNotFoundError struct {
	Name string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("audio input device %q not found", e.Name)
}

// NoSupportedConfigError reports a device with no input configurations at all.
type NoSupportedConfigError struct {
	Device string
}

func (e *NoSupportedConfigError) Error() string {
	return fmt.Sprintf("device %q reports no supported input configurations", e.Device)
}

// NoCompatibleFormatError reports a device whose configurations all use
// sample formats the engine cannot capture.
type NoCompatibleFormatError struct {
	Device string
}

func (e *NoCompatibleFormatError) Error() string {
	return fmt.Sprintf("device %q offers no compatible sample format", e.Device)
}

// InvalidOutputPathError reports an output directory path occupied by a
// non-directory.
type InvalidOutputPathError struct {
	Path string
}

func (e *InvalidOutputPathError) Error() string {
	return fmt.Sprintf("output path %q exists and is not a directory", e.Path)
}

// NoActiveSessionError reports a command issued with no usable session.
type NoActiveSessionError struct {
	Reason string
}

func (e *NoActiveSessionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no active recording session: %s", e.Reason)
	}
	return "no active recording session"
}
