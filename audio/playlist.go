package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/plus3/caffeinated/asset"
	"go.uber.org/zap"
)

// Playlist loops a list of music tracks. It is polled once per tick through
// AdvanceIfFinished and is not safe for concurrent polling.
type Playlist struct {
	tracks  []*asset.AudioClip
	sink    Sink
	decoder Decoder
	volumes Volumes
	log     *zap.Logger

	playing atomic.Bool
	current *track
}

type track struct {
	stream beep.StreamSeekCloser
	once   sync.Once
}

func (t *track) close() {
	t.once.Do(func() { t.stream.Close() })
}

// PlaylistOption configures a Playlist.
type PlaylistOption func(*Playlist)

// WithDecoder replaces the file decoder.
func WithDecoder(d Decoder) PlaylistOption {
	return func(p *Playlist) { p.decoder = d }
}

// WithVolumes sets the category gains.
func WithVolumes(v Volumes) PlaylistOption {
	return func(p *Playlist) { p.volumes = v }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) PlaylistOption {
	return func(p *Playlist) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPlaylist creates a playlist over tracks. A nil sink plays nothing.
func NewPlaylist(tracks []*asset.AudioClip, sink Sink, opts ...PlaylistOption) *Playlist {
	p := &Playlist{
		tracks:  append([]*asset.AudioClip(nil), tracks...),
		sink:    sink,
		decoder: Files,
		volumes: FullVolume,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink == nil {
		p.log.Error("no audio output, music disabled")
		p.sink = Silent{}
	}
	return p
}

// Tracks returns the playlist order; the next track to play comes first.
func (p *Playlist) Tracks() []*asset.AudioClip {
	return append([]*asset.AudioClip(nil), p.tracks...)
}

// Playing reports whether a track is playing.
func (p *Playlist) Playing() bool {
	return p.playing.Load()
}

// AdvanceIfFinished starts the next track when nothing is playing and moves it to the
// back of the list. Tracks that fail to decode are logged and skipped; if none
// decodes, nothing plays until the next call.
func (p *Playlist) AdvanceIfFinished() {
	if p.playing.Load() || len(p.tracks) == 0 {
		return
	}

	for range len(p.tracks) {
		next := p.tracks[0]
		p.tracks = append(p.tracks[1:], next)

		stream, format, err := p.decoder.Decode(next.Path)
		if err != nil {
			p.log.Warn("could not decode music track, skipped", zap.String("file", next.Path), zap.Error(err))
			continue
		}

		p.start(next, stream, format)
		return
	}
}

func (p *Playlist) start(clip *asset.AudioClip, stream beep.StreamSeekCloser, format beep.Format) {
	t := &track{stream: stream}
	p.current = t
	p.playing.Store(true)

	s := resampled(stream, format.SampleRate, p.sink.SampleRate())
	s = withVolume(s, p.volumes.For(clip.Category))

	p.log.Debug("playing music track", zap.String("file", clip.Path))
	p.sink.Play(beep.Seq(s, beep.Callback(func() {
		t.close()
		p.playing.Store(false)
	})))
}

// Stop silences the sink and releases the current track. A later AdvanceIfFinished
// starts the next track.
func (p *Playlist) Stop() {
	p.sink.Clear()
	if p.current != nil {
		p.current.close()
		p.current = nil
	}
	p.playing.Store(false)
}

// MusicTracks resolves ids to audio clips. Without ids every music clip of the
// registry is used, in id order. Ids that are not audio clips are logged and dropped.
func MusicTracks(registry *asset.Registry, ids []string, log *zap.Logger) []*asset.AudioClip {
	if log == nil {
		log = zap.NewNop()
	}

	var tracks []*asset.AudioClip
	if len(ids) == 0 {
		for _, c := range registry.All() {
			if clip, ok := c.(*asset.AudioClip); ok && clip.Category == asset.CategoryMusic {
				tracks = append(tracks, clip)
			}
		}
		return tracks
	}

	for _, id := range ids {
		clip, ok := registry.AudioClip(id)
		if !ok {
			log.Warn("music track is not a loaded audio clip", zap.String("asset_id", id))
			continue
		}
		tracks = append(tracks, clip)
	}
	return tracks
}
