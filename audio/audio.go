// Package audio plays the music of a campaign. Streams are decoded with beep and
// handed to a Sink; the device subpackage provides the speaker-backed one.
package audio

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/plus3/caffeinated/asset"
	"github.com/rotisserie/eris"
)

// DefaultSampleRate is the output rate used when none is configured.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrUnsupportedFormat is returned for audio files no decoder is registered for.
var ErrUnsupportedFormat = eris.New("unsupported audio format")

// Sink plays streamers on some output.
type Sink interface {
	Play(s beep.Streamer)
	Clear()
	SampleRate() beep.SampleRate
}

// Silent is a Sink without an output. Streams handed to it never play, and never end.
type Silent struct {
	Rate beep.SampleRate
}

func (Silent) Play(beep.Streamer) {}
func (Silent) Clear()             {}

func (s Silent) SampleRate() beep.SampleRate {
	if s.Rate == 0 {
		return DefaultSampleRate
	}
	return s.Rate
}

// Decoder opens an audio file as a stream.
type Decoder interface {
	Decode(path string) (beep.StreamSeekCloser, beep.Format, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (beep.StreamSeekCloser, beep.Format, error)

func (f DecoderFunc) Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	return f(path)
}

// Files decodes wav, ogg and mp3 files, picking the codec by extension.
var Files = DecoderFunc(DecodeFile)

// DecodeFile opens path and decodes it with the codec its extension names.
func DecodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".ogg", ".mp3":
	default:
		return nil, beep.Format{}, eris.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, eris.Wrap(err, "open audio clip")
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, eris.Wrapf(err, "decode %s", path)
	}
	// closing the stream closes f
	return stream, format, nil
}

// Volumes are linear gains per clip category, from 0 (muted) to 1 (unchanged).
type Volumes struct {
	Music   float64
	Effects float64
	Voice   float64
}

// FullVolume leaves every category unchanged.
var FullVolume = Volumes{Music: 1, Effects: 1, Voice: 1}

// For returns the gain of a category.
func (v Volumes) For(c asset.ClipCategory) float64 {
	switch c {
	case asset.CategoryMusic:
		return v.Music
	case asset.CategoryEffects:
		return v.Effects
	case asset.CategoryVoice:
		return v.Voice
	}
	return 1
}

// withVolume applies a linear gain to s.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain == 1 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(max(gain, 1e-6)),
		Silent:   gain <= 0,
	}
}

// resampled converts s to the sink's rate if needed.
func resampled(s beep.Streamer, from, to beep.SampleRate) beep.Streamer {
	if from == to || from == 0 {
		return s
	}
	return beep.Resample(4, from, to, s)
}
