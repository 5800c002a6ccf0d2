package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// DefaultPhase is used when a Scheduler is created without naming any phases.
const DefaultPhase = "update"

var (
	// ErrWriteConflict is returned by Build when two systems of one phase write the same type.
	ErrWriteConflict = eris.New("conflicting writes within a phase")
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Phase          string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(duration time.Duration) {
	st.executionCount++
	st.lastDuration = duration
	st.totalDuration += duration
	if duration < st.minDuration {
		st.minDuration = duration
	}
	if duration > st.maxDuration {
		st.maxDuration = duration
	}
}

type scheduledSystem struct {
	system   System
	name     string
	prefetch []prefetcher
	reads    bitmap.Bitmap
	writes   bitmap.Bitmap
	commands *Commands
	stats    *systemStatsInternal
}

type phase struct {
	name    string
	systems []*scheduledSystem
	levels  [][]*scheduledSystem
}

// Scheduler runs systems grouped into phases. Phases run strictly in order. Inside a
// phase, systems whose access sets overlap are ordered by registration; the rest may
// run concurrently when parallel execution is enabled. Each system queues structural
// changes on its own Commands buffer, and all buffers of a phase are flushed in
// registration order once the whole phase has finished.
type Scheduler struct {
	storage  *Storage
	phases   []*phase
	typeBits map[reflect.Type]uint32
	types    []reflect.Type
	built    bool
	parallel bool
	workers  int
}

// NewScheduler creates a new scheduler for the given storage with the named phases,
// in execution order.
func NewScheduler(storage *Storage, phases ...string) *Scheduler {
	if len(phases) == 0 {
		phases = []string{DefaultPhase}
	}

	s := &Scheduler{
		storage:  storage,
		typeBits: make(map[reflect.Type]uint32),
	}
	for _, name := range phases {
		if s.phase(name) != nil {
			panic("duplicate phase " + name)
		}
		s.phases = append(s.phases, &phase{name: name})
	}
	return s
}

// SetParallel toggles concurrent execution of independent systems within a phase.
func (s *Scheduler) SetParallel(parallel bool) {
	s.parallel = parallel
}

// SetWorkers bounds the number of systems running at once. Zero or less means no limit.
func (s *Scheduler) SetWorkers(n int) {
	s.workers = n
}

// Phases returns the phase names in execution order.
func (s *Scheduler) Phases() []string {
	names := make([]string, len(s.phases))
	for i, p := range s.phases {
		names[i] = p.name
	}
	return names
}

func (s *Scheduler) phase(name string) *phase {
	for _, p := range s.phases {
		if p.name == name {
			return p
		}
	}
	return nil
}

// Register adds a system to a phase and initializes its Query and Singleton fields.
func (s *Scheduler) Register(phaseName string, system System) {
	p := s.phase(phaseName)
	if p == nil {
		panic("unknown phase " + phaseName)
	}

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	entry := &scheduledSystem{
		system:   system,
		name:     systemType.Name(),
		commands: newCommands(),
		stats:    &systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}

	access := s.bindFields(system, entry)
	if declarer, ok := system.(AccessDeclarer); ok {
		access = access.Merge(declarer.Access())
	}
	for _, t := range access.Reads {
		entry.reads.Set(s.bit(t))
	}
	for _, t := range access.Writes {
		entry.writes.Set(s.bit(t))
	}

	p.systems = append(p.systems, entry)
	s.built = false
}

func (s *Scheduler) bit(t reflect.Type) uint32 {
	if b, ok := s.typeBits[t]; ok {
		return b
	}
	b := uint32(len(s.types))
	s.typeBits[t] = b
	s.types = append(s.types, t)
	return b
}

func (s *Scheduler) bindFields(system System, entry *scheduledSystem) Access {
	var access Access

	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return access
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		bound, ok := field.Addr().Interface().(systemField)
		if !ok {
			continue
		}

		bound.Init(s.storage)
		access = access.Merge(bound.access(fieldReadOnly(fieldType)))

		if p, ok := bound.(prefetcher); ok {
			entry.prefetch = append(entry.prefetch, p)
		}
	}

	return access
}

func fieldReadOnly(field reflect.StructField) bool {
	tag := field.Tag.Get("ecs")
	if tag == "" {
		return false
	}
	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "read":
			return true
		default:
			panic("invalid ecs tag value on system field " + field.Name + ": \"" + tag + "\" (supported: read)")
		}
	}
	return false
}

// Build validates every phase and computes its execution levels. It is called by
// Once when systems were registered since the last build.
func (s *Scheduler) Build() error {
	for _, p := range s.phases {
		if err := s.buildPhase(p); err != nil {
			return err
		}
	}
	s.built = true
	return nil
}

func (s *Scheduler) buildPhase(p *phase) error {
	p.levels = nil
	level := make([]int, len(p.systems))

	for i, sys := range p.systems {
		for j := 0; j < i; j++ {
			other := p.systems[j]
			if b, ok := firstShared(sys.writes, other.writes); ok {
				return eris.Wrapf(ErrWriteConflict, "phase %s: %s and %s both write %s",
					p.name, other.name, sys.name, s.types[b])
			}

			_, readsWritten := firstShared(sys.reads, other.writes)
			_, writesRead := firstShared(sys.writes, other.reads)
			if readsWritten || writesRead {
				level[i] = max(level[i], level[j]+1)
			}
		}

		for len(p.levels) <= level[i] {
			p.levels = append(p.levels, nil)
		}
		p.levels[level[i]] = append(p.levels[level[i]], sys)
	}

	return nil
}

func firstShared(a, b bitmap.Bitmap) (uint32, bool) {
	var (
		first uint32
		found bool
	)
	a.Range(func(x uint32) {
		if !found && b.Contains(x) {
			first, found = x, true
		}
	})
	return first, found
}

// Levels returns the system names of a phase grouped by execution level.
// Systems in the same level never touch a type another of them writes.
func (s *Scheduler) Levels(phaseName string) [][]string {
	p := s.phase(phaseName)
	if p == nil {
		return nil
	}
	if !s.built {
		if err := s.Build(); err != nil {
			return nil
		}
	}

	levels := make([][]string, len(p.levels))
	for i, level := range p.levels {
		for _, sys := range level {
			levels[i] = append(levels[i], sys.name)
		}
	}
	return levels
}

// Once executes every phase once with the given delta time.
// Panics if the registered systems do not form a valid schedule.
func (s *Scheduler) Once(dt float64) {
	if !s.built {
		if err := s.Build(); err != nil {
			panic(err)
		}
	}

	for _, p := range s.phases {
		s.runPhase(p, dt)
	}
}

func (s *Scheduler) runPhase(p *phase, dt float64) {
	for _, level := range p.levels {
		if s.parallel && len(level) > 1 {
			s.runLevel(p, level, dt)
			continue
		}
		for _, sys := range level {
			s.runSystem(p, sys, dt)
		}
	}

	for _, sys := range p.systems {
		sys.commands.Flush(s.storage)
	}
}

func (s *Scheduler) runLevel(p *phase, level []*scheduledSystem, dt float64) {
	g := new(errgroup.Group)
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}

	for _, sys := range level {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = eris.Errorf("phase %s: system %s panicked: %v", p.name, sys.name, r)
				}
			}()
			s.runSystem(p, sys, dt)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		panic(err)
	}
}

func (s *Scheduler) runSystem(p *phase, sys *scheduledSystem, dt float64) {
	start := time.Now()

	for _, q := range sys.prefetch {
		q.Execute()
	}

	sys.system.Execute(&UpdateFrame{
		Phase:     p.name,
		DeltaTime: dt,
		Commands:  sys.commands,
		Storage:   s.storage,
	})

	sys.stats.record(time.Since(start))
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution, in phase then registration order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{}

	for _, p := range s.phases {
		for _, sys := range p.systems {
			internal := sys.stats
			avgDuration := time.Duration(0)
			if internal.executionCount > 0 {
				avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			}

			stats.Systems = append(stats.Systems, SystemStats{
				Name:           sys.name,
				Phase:          p.name,
				ExecutionCount: internal.executionCount,
				MinDuration:    internal.minDuration,
				MaxDuration:    internal.maxDuration,
				AvgDuration:    avgDuration,
				LastDuration:   internal.lastDuration,
				TotalDuration:  internal.totalDuration,
			})
			stats.TotalExecutions += internal.executionCount
		}
	}

	stats.SystemCount = len(stats.Systems)
	return stats
}

// SystemNames returns the names of the systems registered to a phase.
func (s *Scheduler) SystemNames(phaseName string) []string {
	p := s.phase(phaseName)
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.systems))
	for _, sys := range p.systems {
		names = append(names, sys.name)
	}
	return names
}
