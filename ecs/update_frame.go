package ecs

// UpdateFrame is handed to every system once per tick.
type UpdateFrame struct {
	Phase     string
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}
