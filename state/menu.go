package state

import (
	"sync"

	"github.com/plus3/caffeinated/ecs"
	"go.uber.org/zap"
)

// PhaseMenu is the only phase of the main menu scheduler.
const PhaseMenu = "menu"

// Action is a choice made on the main menu.
type Action int

const (
	NewGame Action = iota
	LoadGame
	QuitGame
)

func (a Action) String() string {
	switch a {
	case NewGame:
		return "new game"
	case LoadGame:
		return "load game"
	case QuitGame:
		return "quit game"
	}
	return "unknown"
}

// Menu delivers the actions picked since the last poll, one per call.
type Menu interface {
	Poll() (Action, bool)
}

// MenuQueue is a Menu for UIs that report clicks as they happen.
type MenuQueue struct {
	mu      sync.Mutex
	pending []Action
}

// Push records a picked action.
func (q *MenuQueue) Push(a Action) {
	q.mu.Lock()
	q.pending = append(q.pending, a)
	q.mu.Unlock()
}

func (q *MenuQueue) Poll() (Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return 0, false
	}
	a := q.pending[0]
	q.pending = q.pending[1:]
	return a, true
}

// MenuInput is the resource holding the menu the player interacts with.
type MenuInput struct {
	Source Menu
}

// MenuActions collects the actions polled during a tick.
type MenuActions struct {
	Pending []Action
}

// MenuSystem drains the menu into MenuActions.
type MenuSystem struct {
	Input   ecs.Singleton[MenuInput] `ecs:"read"`
	Actions ecs.Singleton[MenuActions]
}

func (s *MenuSystem) Execute(frame *ecs.UpdateFrame) {
	src := s.Input.Get().Source
	if src == nil {
		return
	}
	actions := s.Actions.Get()
	for {
		a, ok := src.Poll()
		if !ok {
			return
		}
		actions.Pending = append(actions.Pending, a)
	}
}

// NewGameFunc builds the state a new game starts in.
type NewGameFunc func() (State, error)

// MainMenu is the title screen.
type MainMenu struct {
	world     *ecs.Storage
	scheduler *ecs.Scheduler
	actions   *ecs.Singleton[MenuActions]
	newGame   NewGameFunc
	log       *zap.Logger
	quit      bool
}

// NewMainMenu creates the main menu reading actions from menu. newGame is called
// when the player starts a new game.
func NewMainMenu(menu Menu, newGame NewGameFunc, log *zap.Logger) *MainMenu {
	if log == nil {
		log = zap.NewNop()
	}

	world := ecs.NewStorage(ecs.NewComponentRegistry())
	world.AddSingleton(MenuInput{Source: menu})
	actions := ecs.NewSingleton[MenuActions](world)

	scheduler := ecs.NewScheduler(world, PhaseMenu)
	scheduler.Register(PhaseMenu, &MenuSystem{})

	return &MainMenu{
		world:     world,
		scheduler: scheduler,
		actions:   actions,
		newGame:   newGame,
		log:       log,
	}
}

func (m *MainMenu) String() string { return "main menu" }

// Scheduler returns the menu scheduler.
func (m *MainMenu) Scheduler() *ecs.Scheduler { return m.scheduler }

// World returns the menu world.
func (m *MainMenu) World() *ecs.Storage { return m.world }

// Update polls the menu and reacts to the picked actions in order. The first action
// that leaves the menu wins; later ones are dropped.
func (m *MainMenu) Update(dt float64) Event {
	m.scheduler.Once(dt)

	actions := m.actions.Get()
	pending := actions.Pending
	actions.Pending = nil

	for _, a := range pending {
		if event := m.react(a); event.Kind != EventNone {
			return event
		}
	}
	return None()
}

func (m *MainMenu) react(a Action) Event {
	m.log.Debug("menu action", zap.Stringer("action", a))

	switch a {
	case NewGame:
		if m.newGame == nil {
			m.log.Warn("new game is not available")
			return None()
		}
		next, err := m.newGame()
		if err != nil {
			m.log.Error("could not start a new game", zap.Error(err))
			return None()
		}
		return ChangeState(next)
	case LoadGame:
		m.log.Warn("loading a saved game is not available yet")
	case QuitGame:
		m.quit = true
	}
	return None()
}

func (m *MainMenu) Finished() bool { return m.quit }

func (m *MainMenu) Exit() {}
