package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/audio"
	"github.com/plus3/caffeinated/audio/device"
	"github.com/plus3/caffeinated/campaign"
	"github.com/plus3/caffeinated/config"
	"github.com/plus3/caffeinated/debugui"
	debugui_ebiten "github.com/plus3/caffeinated/debugui/ebiten"
	"github.com/plus3/caffeinated/game"
	"github.com/plus3/caffeinated/platform"
	"github.com/plus3/caffeinated/state"
	"go.uber.org/zap"
)

func runGame(opts *options) error {
	settings, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	stop, err := startProfile(opts.profile)
	if err != nil {
		return err
	}
	defer stop()

	keyboard, err := platform.NewKeyboard(settings.Input)
	if err != nil {
		return err
	}
	frame := platform.NewFrame()
	menu := platform.NewKeyMenu()

	newGame := func() (state.State, error) {
		return state.NewPlaying(state.PlayingConfig{
			Campaign: settings.Game.Campaign,
			Loader:   campaign.NewLoader(platform.Images, log.Named("campaign")),
			Input:    keyboard,
			Target:   frame,
			Music:    musicFor(settings.Audio, log),
			Parallel: settings.Game.Parallel,
			Workers:  settings.Game.Workers,
			Log:      log.Named("game"),
		})
	}

	g := &platform.Game{
		Machine: state.NewMachine(state.NewMainMenu(menu, newGame, log.Named("menu")), log.Named("state")),
		Frame:   frame,
		Menu:    menu,
		TPS:     settings.Game.TPS,
	}
	if settings.Debug.Overlay {
		g.Overlay = &debugui_ebiten.Overlay{
			Backend: debugui_ebiten.NewImguiBackend(settings.Window.Title, settings.Window.Width, settings.Window.Height),
			UI:      debugui.NewOverlay(&menu.MenuQueue),
		}
	}

	log.Info("starting", zap.String("campaign", settings.Game.Campaign), zap.Int("tps", settings.Game.TPS))
	return platform.Run(settings.Window, g)
}

// musicFor returns the playlist factory for a campaign, or nil when audio is off.
func musicFor(cfg config.AudioConfig, log *zap.Logger) func(*campaign.Campaign, *asset.Registry) game.MusicPlayer {
	if !cfg.Enabled {
		return nil
	}

	var sink audio.Sink
	volumes := audio.Volumes{Music: cfg.Music, Effects: cfg.Effects, Voice: cfg.Voice}

	return func(c *campaign.Campaign, assets *asset.Registry) game.MusicPlayer {
		if sink == nil {
			sink = device.Open(beep.SampleRate(cfg.SampleRate), time.Duration(cfg.BufferMS)*time.Millisecond, log.Named("audio"))
		}
		tracks := audio.MusicTracks(assets, c.Music, log.Named("music"))
		return audio.NewPlaylist(tracks, sink, audio.WithVolumes(volumes), audio.WithLogger(log.Named("music")))
	}
}
