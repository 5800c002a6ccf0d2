package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/caffeinated/ecs"
)

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	recorded      int
}

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	historyFrames = max(historyFrames, 1)
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Record stores the duration of one tick in seconds.
func (ps *PerformanceStatsComponent) Record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
	ps.recorded = min(ps.recorded+1, ps.historyFrames)
}

// AverageFrameTime returns the mean of the recorded ticks in milliseconds.
func (ps *PerformanceStatsComponent) AverageFrameTime() float32 {
	if ps.recorded == 0 {
		return 0
	}
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.recorded)
}

// PhaseTiming sums the system timings of one scheduler phase.
type PhaseTiming struct {
	Phase   string
	Systems []ecs.SystemStats
	Last    time.Duration
	Average time.Duration
}

// PhaseTimings groups stats by phase, in the scheduler's phase order.
func PhaseTimings(scheduler *ecs.Scheduler) []PhaseTiming {
	if scheduler == nil {
		return nil
	}

	phases := scheduler.Phases()
	timings := make([]PhaseTiming, len(phases))
	index := make(map[string]int, len(phases))
	for i, name := range phases {
		timings[i].Phase = name
		index[name] = i
	}

	for _, sys := range scheduler.GetStats().Systems {
		i, ok := index[sys.Phase]
		if !ok {
			continue
		}
		t := &timings[i]
		t.Systems = append(t.Systems, sys)
		t.Last += sys.LastDuration
		t.Average += sys.AvgDuration
	}
	return timings
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d)/float64(time.Millisecond))
}

func (ps *PerformanceStatsComponent) Render(in Inspected, deltaTime float32) {
	ps.Record(deltaTime)

	defer imgui.End()
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		return
	}

	imgui.Text("State: " + in.Name)

	avgFrameTime := ps.AverageFrameTime()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if in.World != nil {
		stats := in.World.CollectStats()
		imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
		imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
		imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

		if imgui.TreeNodeStr("Archetype Details") {
			const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
			if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
				imgui.TableSetupColumn("Archetype ID")
				imgui.TableSetupColumn("Components")
				imgui.TableSetupColumn("Entity Count")
				imgui.TableHeadersRow()

				for _, arch := range stats.ArchetypeBreakdown {
					imgui.TableNextRow()
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("0x%X", arch.ID))
					imgui.TableNextColumn()
					imgui.Text(arch.Label())
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
				}

				imgui.EndTable()
			}
			imgui.TreePop()
		}

		if imgui.TreeNodeStr("Singleton Details") {
			for _, singletonType := range stats.SingletonTypes {
				imgui.BulletText(singletonType)
			}
			imgui.TreePop()
		}
	}

	if timings := PhaseTimings(in.Scheduler); len(timings) > 0 && imgui.TreeNodeStr("System Timings") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTimingTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Phase / System")
			imgui.TableSetupColumn("Last (ms)")
			imgui.TableSetupColumn("Avg (ms)")
			imgui.TableSetupColumn("Max (ms)")
			imgui.TableHeadersRow()

			for _, phase := range timings {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(phase.Phase)
				imgui.TableNextColumn()
				imgui.Text(millis(phase.Last))
				imgui.TableNextColumn()
				imgui.Text(millis(phase.Average))
				imgui.TableNextColumn()

				for _, sys := range phase.Systems {
					imgui.TableNextRow()
					imgui.TableNextColumn()
					imgui.Text("  " + sys.Name)
					imgui.TableNextColumn()
					imgui.Text(millis(sys.LastDuration))
					imgui.TableNextColumn()
					imgui.Text(millis(sys.AvgDuration))
					imgui.TableNextColumn()
					imgui.Text(millis(sys.MaxDuration))
				}
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}
}
