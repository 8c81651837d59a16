package audio

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeHandle struct {
	mu      sync.Mutex
	playing bool
	closed  bool
	release chan struct{}
}

func (f *fakeHandle) Play() {
	f.mu.Lock()
	f.playing = true
	f.mu.Unlock()

	go func() {
		<-f.release
		f.mu.Lock()
		f.playing = false
		f.mu.Unlock()
	}()
}

func (f *fakeHandle) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeHandle) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

type fakePlayback struct {
	handles []*fakeHandle
}

func (f *fakePlayback) NewPlayer(_ io.Reader) pcmPlayer {
	h := &fakeHandle{release: make(chan struct{})}
	f.handles = append(f.handles, h)
	return h
}

func newTestPlayer(playback *fakePlayback) *Player {
	return &Player{
		newContext: func(_, _ int) (playbackContext, error) {
			return playback, nil
		},
		poll: time.Millisecond,
	}
}

func TestPlayPCMBlocksUntilDone(t *testing.T) {
	playback := &fakePlayback{}
	p := newTestPlayer(playback)

	done := make(chan error, 1)
	go func() {
		done <- p.PlayPCM([]byte{0x00, 0x00}, PlaybackSampleRate, 1)
	}()

	waitFor(t, p.Playing)

	select {
	case <-done:
		t.Fatal("PlayPCM returned while the clip was still playing")
	case <-time.After(20 * time.Millisecond):
	}

	close(playback.handles[0].release)

	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Playing() {
		t.Fatal("player still marked as playing")
	}
	if !playback.handles[0].closed {
		t.Fatal("playback handle not closed")
	}
}

func TestPlayPCMWhilePlayingIsNoOp(t *testing.T) {
	playback := &fakePlayback{}
	p := newTestPlayer(playback)

	done := make(chan struct{})
	go func() {
		p.PlayPCM([]byte{0x00, 0x00}, PlaybackSampleRate, 1)
		close(done)
	}()

	waitFor(t, p.Playing)

	var second atomic.Bool
	go func() {
		p.PlayPCM([]byte{0x00, 0x00}, PlaybackSampleRate, 1)
		second.Store(true)
	}()

	waitFor(t, second.Load)

	if len(playback.handles) != 1 {
		t.Fatalf("expected a single playback handle, got %d", len(playback.handles))
	}

	close(playback.handles[0].release)
	<-done
}

func TestPlayPCMRejectsEmptyClip(t *testing.T) {
	p := newTestPlayer(&fakePlayback{})
	if err := p.PlayPCM(nil, PlaybackSampleRate, 1); err == nil {
		t.Fatal("expected error for empty clip")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		time.Sleep(time.Millisecond)
	}
}
