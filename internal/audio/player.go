package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// pcmPlayer is the playback handle surface, narrowed for tests.
type pcmPlayer interface {
	Play()
	IsPlaying() bool
	Close() error
}

// playbackContext creates playback handles; the oto context is adapted to it.
type playbackContext interface {
	NewPlayer(r io.Reader) pcmPlayer
}

type otoPlayback struct {
	ctx *oto.Context
}

func (o *otoPlayback) NewPlayer(r io.Reader) pcmPlayer {
	return o.ctx.NewPlayer(r)
}

// newOtoContext opens the process-wide playback context. oto allows a single
// context per process, so the Player caches the first one it creates.
func newOtoContext(sampleRate, channels int) (playbackContext, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, &DeviceError{Op: "open playback device", Err: err}
	}
	<-ready
	return &otoPlayback{ctx: ctx}, nil
}

// Player plays synthesized speech. At most one playback runs at a time; a
// PlayPCM call while another is in flight returns immediately without error.
type Player struct {
	mu      sync.Mutex
	playing bool
	ctx     playbackContext

	newContext func(sampleRate, channels int) (playbackContext, error)
	poll       time.Duration
}

func NewPlayer() *Player {
	return &Player{
		newContext: newOtoContext,
		poll:       50 * time.Millisecond,
	}
}

// Playing reports whether a playback is currently in flight.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// PlayPCM plays raw signed 16-bit little-endian PCM and blocks until the
// clip finishes. Concurrent calls are a no-op while one is in flight.
func (p *Player) PlayPCM(pcm []byte, sampleRate, channels int) error {
	if len(pcm) == 0 {
		return fmt.Errorf("nothing to play")
	}

	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	p.playing = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	if p.ctx == nil {
		ctx, err := p.newContext(sampleRate, channels)
		if err != nil {
			return err
		}
		p.ctx = ctx
	}

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(p.poll)
	}

	return nil
}
