package audio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/audio"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// clip is an in-memory stream of n samples of a constant value.
type clip struct {
	n, pos int
	value  float64
	closed bool
}

func (c *clip) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.n {
		return 0, false
	}
	n := min(len(samples), c.n-c.pos)
	for i := range n {
		samples[i] = [2]float64{c.value, c.value}
	}
	c.pos += n
	return n, true
}

func (c *clip) Err() error       { return nil }
func (c *clip) Len() int         { return c.n }
func (c *clip) Position() int    { return c.pos }
func (c *clip) Seek(p int) error { c.pos = p; return nil }
func (c *clip) Close() error     { c.closed = true; return nil }

type fakeSink struct {
	queue   []beep.Streamer
	cleared int
}

func (s *fakeSink) Play(st beep.Streamer)       { s.queue = append(s.queue, st) }
func (s *fakeSink) Clear()                      { s.cleared++; s.queue = nil }
func (s *fakeSink) SampleRate() beep.SampleRate { return audio.DefaultSampleRate }

// drain plays every queued streamer to the end and returns the last sample value.
func (s *fakeSink) drain() float64 {
	var last float64
	buf := make([][2]float64, 64)
	for len(s.queue) > 0 {
		st := s.queue[0]
		s.queue = s.queue[1:]
		for {
			n, ok := st.Stream(buf)
			if n > 0 {
				last = buf[n-1][0]
			}
			if !ok {
				break
			}
		}
	}
	return last
}

type fakeDecoder struct {
	opened []string
	clips  map[string]*clip
}

func (d *fakeDecoder) Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	d.opened = append(d.opened, path)
	c, ok := d.clips[path]
	if !ok {
		return nil, beep.Format{}, eris.New("no such file")
	}
	c.pos = 0
	c.closed = false
	return c, beep.Format{SampleRate: audio.DefaultSampleRate, NumChannels: 2, Precision: 2}, nil
}

func tracks(paths ...string) []*asset.AudioClip {
	out := make([]*asset.AudioClip, len(paths))
	for i, p := range paths {
		out[i] = &asset.AudioClip{Path: p, Category: asset.CategoryMusic}
	}
	return out
}

func TestPlaylistLoops(t *testing.T) {
	sink := &fakeSink{}
	decoder := &fakeDecoder{clips: map[string]*clip{
		"a.ogg": {n: 100, value: 1},
		"b.ogg": {n: 100, value: 1},
	}}
	p := audio.NewPlaylist(tracks("a.ogg", "b.ogg"), sink, audio.WithDecoder(decoder))

	p.AdvanceIfFinished()
	assert.True(t, p.Playing())
	assert.Equal(t, []string{"a.ogg"}, decoder.opened)
	assert.Equal(t, "b.ogg", p.Tracks()[0].Path)

	p.AdvanceIfFinished()
	assert.Len(t, decoder.opened, 1, "a playing track is not interrupted")

	sink.drain()
	assert.False(t, p.Playing())
	assert.True(t, decoder.clips["a.ogg"].closed)

	p.AdvanceIfFinished()
	sink.drain()
	p.AdvanceIfFinished()
	assert.Equal(t, []string{"a.ogg", "b.ogg", "a.ogg"}, decoder.opened)
}

func TestPlaylistSkipsBrokenTracks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &fakeSink{}
	decoder := &fakeDecoder{clips: map[string]*clip{"good.ogg": {n: 10, value: 1}}}
	p := audio.NewPlaylist(tracks("broken.ogg", "good.ogg"), sink,
		audio.WithDecoder(decoder), audio.WithLogger(zap.New(core)))

	p.AdvanceIfFinished()
	assert.Equal(t, []string{"broken.ogg", "good.ogg"}, decoder.opened)
	assert.True(t, p.Playing())
	assert.Equal(t, 1, logs.FilterMessage("could not decode music track, skipped").Len())
}

func TestPlaylistNothingDecodes(t *testing.T) {
	sink := &fakeSink{}
	decoder := &fakeDecoder{}
	p := audio.NewPlaylist(tracks("x.ogg", "y.ogg"), sink, audio.WithDecoder(decoder))

	p.AdvanceIfFinished()
	assert.False(t, p.Playing())
	assert.Len(t, decoder.opened, 2, "each track is tried once per call")
	assert.Empty(t, sink.queue)
}

func TestPlaylistVolume(t *testing.T) {
	sink := &fakeSink{}
	decoder := &fakeDecoder{clips: map[string]*clip{"a.ogg": {n: 10, value: 0.8}}}
	p := audio.NewPlaylist(tracks("a.ogg"), sink,
		audio.WithDecoder(decoder), audio.WithVolumes(audio.Volumes{Music: 0.5}))

	p.AdvanceIfFinished()
	assert.InDelta(t, 0.4, sink.drain(), 1e-9)

	muted := audio.NewPlaylist(tracks("a.ogg"), sink,
		audio.WithDecoder(decoder), audio.WithVolumes(audio.Volumes{}))
	muted.AdvanceIfFinished()
	assert.Zero(t, sink.drain())
}

func TestPlaylistStop(t *testing.T) {
	sink := &fakeSink{}
	decoder := &fakeDecoder{clips: map[string]*clip{"a.ogg": {n: 10, value: 1}}}
	p := audio.NewPlaylist(tracks("a.ogg"), sink, audio.WithDecoder(decoder))

	p.AdvanceIfFinished()
	p.Stop()
	assert.False(t, p.Playing())
	assert.Equal(t, 1, sink.cleared)
	assert.True(t, decoder.clips["a.ogg"].closed)
}

func TestPlaylistWithoutSink(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	decoder := &fakeDecoder{clips: map[string]*clip{"a.ogg": {n: 10, value: 1}}}
	p := audio.NewPlaylist(tracks("a.ogg"), nil, audio.WithDecoder(decoder), audio.WithLogger(zap.New(core)))

	assert.Equal(t, 1, logs.Len())
	p.AdvanceIfFinished()
	p.AdvanceIfFinished()
	assert.Len(t, decoder.opened, 1, "a silent sink never finishes a track")
}

func TestMusicTracks(t *testing.T) {
	registry := asset.NewRegistry()
	registry.Add("b-theme", &asset.AudioClip{Path: "b.ogg", Category: asset.CategoryMusic})
	registry.Add("a-theme", &asset.AudioClip{Path: "a.ogg", Category: asset.CategoryMusic})
	registry.Add("jump", &asset.AudioClip{Path: "jump.wav", Category: asset.CategoryEffects})

	all := audio.MusicTracks(registry, nil, nil)
	require.Len(t, all, 2)
	assert.Equal(t, "a.ogg", all[0].Path)
	assert.Equal(t, "b.ogg", all[1].Path)

	picked := audio.MusicTracks(registry, []string{"jump", "missing", "b-theme"}, nil)
	require.Len(t, picked, 2)
	assert.Equal(t, "jump.wav", picked[0].Path)
	assert.Equal(t, "b.ogg", picked[1].Path)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(441), format))
	require.NoError(t, f.Close())

	stream, got, err := audio.DecodeFile(path)
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, format.SampleRate, got.SampleRate)
	assert.Equal(t, 441, stream.Len())

	_, _, err = audio.DecodeFile(filepath.Join(t.TempDir(), "song.flac"))
	assert.True(t, eris.Is(err, audio.ErrUnsupportedFormat))

	_, _, err = audio.DecodeFile(filepath.Join(t.TempDir(), "missing.ogg"))
	assert.Error(t, err)
}

func TestVolumesFor(t *testing.T) {
	v := audio.Volumes{Music: 0.2, Effects: 0.5, Voice: 1}
	assert.Equal(t, 0.2, v.For(asset.CategoryMusic))
	assert.Equal(t, 0.5, v.For(asset.CategoryEffects))
	assert.Equal(t, 1.0, v.For(asset.CategoryVoice))
}
