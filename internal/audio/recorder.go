package audio

import (
	"errors"
	"sync"

	"github.com/gen2brain/malgo"
)

// captureSession is one open microphone device, narrowed for tests.
type captureSession interface {
	Start() error
	Stop() error
	Close()
}

type malgoSession struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

func (s *malgoSession) Start() error { return s.device.Start() }
func (s *malgoSession) Stop() error  { return s.device.Stop() }

func (s *malgoSession) Close() {
	s.device.Uninit()
	_ = s.ctx.Uninit()
	s.ctx.Free()
}

// openMalgoDevice opens a mono signed 16-bit capture device and routes every
// incoming chunk through onChunk.
func openMalgoDevice(onChunk func([]byte)) (captureSession, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, &DeviceError{Op: "open capture backend", Err: err}
	}

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.Capture.Format = malgo.FormatS16
	config.Capture.Channels = 1
	config.SampleRate = CaptureSampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			chunk := make([]byte, len(input))
			copy(chunk, input)
			onChunk(chunk)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, config, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, &DeviceError{Op: "open capture device", Err: err}
	}

	return &malgoSession{ctx: ctx, device: device}, nil
}

// Recorder captures microphone audio between Start and Stop. A recorder is
// reusable: every Start begins a fresh buffer.
type Recorder struct {
	mu      sync.Mutex
	buf     []byte
	session captureSession

	openDevice func(onChunk func([]byte)) (captureSession, error)
}

func NewRecorder() *Recorder {
	return &Recorder{openDevice: openMalgoDevice}
}

// Recording reports whether a capture session is open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

// Start opens the capture device and begins buffering. If the device cannot
// be opened or started no session is left behind.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return errors.New("recording already in progress")
	}

	session, err := r.openDevice(r.appendChunk)
	if err != nil {
		return err
	}

	r.buf = nil
	if err := session.Start(); err != nil {
		session.Close()
		return &DeviceError{Op: "start capture", Err: err}
	}

	r.session = session
	return nil
}

// Stop ends the capture and returns the recording framed as WAV together
// with its mime type. The device is released even when stopping fails.
func (r *Recorder) Stop() ([]byte, string, error) {
	r.mu.Lock()
	session := r.session
	r.session = nil
	r.mu.Unlock()

	if session == nil {
		return nil, "", errors.New("no recording in progress")
	}

	// Stop and Close run unlocked: the data callback takes the same lock
	// and the device waits for it to drain.
	stopErr := session.Stop()
	session.Close()

	r.mu.Lock()
	pcm := r.buf
	r.buf = nil
	r.mu.Unlock()

	if stopErr != nil {
		return nil, "", &DeviceError{Op: "stop capture", Err: stopErr}
	}
	if len(pcm) == 0 {
		return nil, "", errors.New("recording captured no audio")
	}

	return EncodeWAV(pcm, CaptureSampleRate, 1), "audio/wav", nil
}

func (r *Recorder) appendChunk(chunk []byte) {
	r.mu.Lock()
	r.buf = append(r.buf, chunk...)
	r.mu.Unlock()
}
