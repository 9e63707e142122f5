// Package audio plays the alert chime.
package audio

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	channels   = 2
)

// Global audio context singleton
var (
	globalCtx     *oto.Context
	globalCtxOnce sync.Once
	ctxReady      bool
)

// Chime is a playing alert sound that can be cancelled.
type Chime struct {
	stopChan chan struct{}
	stopOnce sync.Once
	player   *oto.Player
}

func initContext() {
	globalCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalCtx = ctx
		ctxReady = true
	})
}

// PlayChime starts the alert chime and returns a handle to stop it, or nil
// when audio is unavailable. Playback never blocks the caller.
func PlayChime() *Chime {
	initContext()
	if !ctxReady || globalCtx == nil {
		return nil
	}

	c := &Chime{stopChan: make(chan struct{})}

	go func() {
		pcm := chimeTone()
		c.player = globalCtx.NewPlayer(bytes.NewReader(pcm))
		c.player.Play()

		select {
		case <-c.stopChan:
		case <-time.After(time.Duration(len(pcm)/(channels*2)) * time.Second / sampleRate):
		}

		c.player.Close()
	}()

	return c
}

// Stop cancels playback. Safe to call more than once.
func (c *Chime) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

// chimeTone synthesizes a short two-note tone as signed 16-bit little-endian
// PCM. Replaces a bundled WAV asset.
func chimeTone() []byte {
	notes := []struct {
		freq     float64
		duration time.Duration
	}{
		{freq: 880, duration: 200 * time.Millisecond},
		{freq: 660, duration: 300 * time.Millisecond},
	}

	var buf bytes.Buffer
	for _, note := range notes {
		samples := int(float64(sampleRate) * note.duration.Seconds())
		for i := 0; i < samples; i++ {
			// Linear fade-out avoids a click at note boundaries
			envelope := 1 - float64(i)/float64(samples)
			v := math.Sin(2*math.Pi*note.freq*float64(i)/sampleRate) * envelope * 0.3
			sample := int16(v * math.MaxInt16)
			for ch := 0; ch < channels; ch++ {
				binary.Write(&buf, binary.LittleEndian, sample)
			}
		}
	}
	return buf.Bytes()
}
