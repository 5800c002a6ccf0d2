package state

import (
	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/campaign"
	"github.com/plus3/caffeinated/ecs"
	"github.com/plus3/caffeinated/game"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PlayingConfig describes how to start a game.
type PlayingConfig struct {
	// Campaign is the campaign directory.
	Campaign string
	Loader   *campaign.Loader
	Input    game.InputSource
	Target   asset.FrameTarget
	// Music builds the music player once the campaign is loaded. Optional.
	Music    func(c *campaign.Campaign, assets *asset.Registry) game.MusicPlayer
	Parallel bool
	Workers  int
	Log      *zap.Logger
}

// Playing runs a loaded campaign.
type Playing struct {
	campaign  *campaign.Campaign
	assets    *asset.Registry
	world     *ecs.Storage
	scheduler *ecs.Scheduler
	music     game.MusicPlayer
	log       *zap.Logger
}

// NewPlaying loads the campaign, spawns its entities and builds the game schedule.
func NewPlaying(cfg PlayingConfig) (*Playing, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Loader == nil {
		return nil, eris.New("no campaign loader configured")
	}

	assets := asset.NewRegistry()
	c, err := cfg.Loader.Load(cfg.Campaign, assets)
	if err != nil {
		return nil, eris.Wrapf(err, "load campaign %s", cfg.Campaign)
	}
	if len(c.Failed) > 0 {
		log.Warn("campaign loaded with broken assets", zap.String("campaign", c.Name), zap.Strings("failed", c.Failed))
	}

	var music game.MusicPlayer
	if cfg.Music != nil {
		music = cfg.Music(c, assets)
	}

	world := game.NewWorld(game.Resources{
		Assets: assets,
		Input:  cfg.Input,
		Target: cfg.Target,
		Music:  music,
	})
	game.SpawnAll(world, c.Entities)

	scheduler := game.NewScheduler(world)
	scheduler.SetParallel(cfg.Parallel)
	scheduler.SetWorkers(cfg.Workers)
	if err := scheduler.Build(); err != nil {
		return nil, err
	}

	log.Info("campaign started",
		zap.String("campaign", c.Name),
		zap.Int("assets", assets.Len()),
		zap.Int("entities", world.EntityCount()))

	return &Playing{
		campaign:  c,
		assets:    assets,
		world:     world,
		scheduler: scheduler,
		music:     music,
		log:       log,
	}, nil
}

func (p *Playing) String() string { return "playing " + p.campaign.Name }

// Campaign returns the loaded campaign.
func (p *Playing) Campaign() *campaign.Campaign { return p.campaign }

// Assets returns the campaign's asset registry.
func (p *Playing) Assets() *asset.Registry { return p.assets }

// World returns the game world.
func (p *Playing) World() *ecs.Storage { return p.world }

// Scheduler returns the game scheduler.
func (p *Playing) Scheduler() *ecs.Scheduler { return p.scheduler }

// Update runs every phase of the game once.
func (p *Playing) Update(dt float64) Event {
	p.scheduler.Once(dt)
	return None()
}

func (p *Playing) Finished() bool { return false }

// Exit stops the music.
func (p *Playing) Exit() {
	if s, ok := p.music.(interface{ Stop() }); ok {
		s.Stop()
	}
}
