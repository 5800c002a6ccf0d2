// Package device connects the audio package to the system speaker.
package device

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/caffeinated/audio"
	"go.uber.org/zap"
)

// DefaultBuffer is the speaker buffer length. Longer buffers add latency, shorter
// ones risk underruns.
const DefaultBuffer = 100 * time.Millisecond

var (
	initOnce sync.Once
	initErr  error
)

// Speaker is a Sink playing on the system's default output. All Speakers share the
// one global speaker.
type Speaker struct {
	rate  beep.SampleRate
	mixer *beep.Mixer
}

// Open initializes the speaker. Without a usable output device the error is logged
// and a silent sink is returned instead, so the game runs without sound.
func Open(rate beep.SampleRate, buffer time.Duration, log *zap.Logger) audio.Sink {
	if log == nil {
		log = zap.NewNop()
	}
	if rate <= 0 {
		rate = audio.DefaultSampleRate
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	initOnce.Do(func() {
		initErr = speaker.Init(rate, rate.N(buffer))
	})
	if initErr != nil {
		log.Error("no audio device was found", zap.Error(initErr))
		return audio.Silent{Rate: rate}
	}

	s := &Speaker{rate: rate, mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s
}

// Play mixes st into the output.
func (s *Speaker) Play(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Clear drops everything this Speaker is playing.
func (s *Speaker) Clear() {
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

// SampleRate is the output rate streams must be resampled to.
func (s *Speaker) SampleRate() beep.SampleRate {
	return s.rate
}
