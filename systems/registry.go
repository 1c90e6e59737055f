package systems

// SystemInfo describes a simulation phase for logs and perf reports.
type SystemInfo struct {
	ID          string // Identifier used for perf tracking
	Name        string // Display name
	Description string
	Category    string // Grouping (core, ooze, world)
}

// Phase IDs in per-tick execution order.
const (
	PhaseSpatialGrid = "spatialGrid"
	PhaseFeeding     = "feeding"
	PhasePursuit     = "pursuit"
	PhaseOoze        = "ooze"
	PhaseCharges     = "charges"
	PhasePhysics     = "physics"
	PhaseCleanup     = "cleanup"
	PhaseRespawn     = "respawn"
	PhaseTelemetry   = "telemetry"
)

// SystemRegistry holds metadata about all phases.
// Perf output and logs read names from here so they stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases in execution order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhaseSpatialGrid, Name: "Spatial Grid", Description: "Rebuilds the overlap lookup grid", Category: "core"})

	r.Register(SystemInfo{ID: PhaseFeeding, Name: "Feeding", Description: "Players feed growth items to oozes", Category: "ooze"})
	r.Register(SystemInfo{ID: PhasePursuit, Name: "Pursuit", Description: "Oozes pick targets and hop", Category: "ooze"})
	r.Register(SystemInfo{ID: PhaseOoze, Name: "Ooze", Description: "Mass scan, suction, merges and absorption", Category: "ooze"})

	r.Register(SystemInfo{ID: PhaseCharges, Name: "Charges", Description: "Fuses and detonations", Category: "world"})
	r.Register(SystemInfo{ID: PhasePhysics, Name: "Physics", Description: "Gravity, riders, ground contact", Category: "world"})

	r.Register(SystemInfo{ID: PhaseCleanup, Name: "Cleanup", Description: "Deletes removed entities", Category: "core"})
	r.Register(SystemInfo{ID: PhaseRespawn, Name: "Respawn", Description: "Tops up the ooze population", Category: "core"})
	r.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Window stats and snapshots", Category: "core"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
