package audio

import "fmt"

// DeviceError reports a failure talking to an audio device. When recording
// fails to start the session is left inactive and the caller falls back to
// typed input.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
