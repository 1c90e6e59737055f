// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Ooze        OozeConfig        `yaml:"ooze"`
	Variants    []VariantConfig   `yaml:"variants"`
	Population  PopulationConfig  `yaml:"population"`
	Combat      CombatConfig      `yaml:"combat"`
	Charges     ChargeConfig      `yaml:"charges"`
	Items       ItemConfig        `yaml:"items"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Bookmarks   BookmarksConfig   `yaml:"bookmarks"`
	Persistence PersistenceConfig `yaml:"persistence"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world dimensions and world rules.
type WorldConfig struct {
	Width            float64 `yaml:"width"`             // X extent in world units
	Depth            float64 `yaml:"depth"`             // Z extent in world units
	Ceiling          float64 `yaml:"ceiling"`           // Y extent; nothing rises above this
	GridCellSize     float64 `yaml:"grid_cell_size"`    // Spatial grid bucket size
	Difficulty       string  `yaml:"difficulty"`        // peaceful, easy, normal, hard
	DisturbCreatures bool    `yaml:"disturb_creatures"` // Non-player creatures may be picked up
	LightLevel       int     `yaml:"light_level"`       // Ambient block light (0-15) for spawn checks
}

// PhysicsConfig holds per-tick integration parameters.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`         // Downward acceleration per tick
	AirDrag        float64 `yaml:"air_drag"`        // Vertical velocity multiplier per tick
	GroundFriction float64 `yaml:"ground_friction"` // Horizontal multiplier while grounded
	AirFriction    float64 `yaml:"air_friction"`    // Horizontal multiplier while airborne
}

// OozeConfig holds the creature's tunables.
type OozeConfig struct {
	MinSize          int     `yaml:"min_size"`
	MaxSize          int     `yaml:"max_size"`
	BaseDimension    float64 `yaml:"base_dimension"`    // Width/height before size scaling
	DimensionScale   float64 `yaml:"dimension_scale"`   // Per-size multiplier on BaseDimension
	MassMargin       float64 `yaml:"mass_margin"`       // Expansion of the mass scan box on every side
	FollowRange      float64 `yaml:"follow_range"`      // Base sensing range before the spawn modifier
	FollowRangeSigma float64 `yaml:"follow_range_sigma"` // Stddev of the spawn follow-range modifier
	MirroredChance   float64 `yaml:"mirrored_chance"`   // Probability of the mirrored flag at spawn
	TargetMaxDY      float64 `yaml:"target_max_dy"`     // Max vertical distance to pursue a target
	JumpVelocity     float64 `yaml:"jump_velocity"`     // Upward velocity of a hop
	JumpCooldownMin  int     `yaml:"jump_cooldown_min"` // Ticks between hops (min)
	JumpCooldownSpan int     `yaml:"jump_cooldown_span"` // Random extra ticks between hops
	OversizeAt       int     `yaml:"oversize_at"`       // Size at which the oversize flag persists
}

// DefaultFamily is the merge family of variants that do not name one.
const DefaultFamily = "ooze"

// VariantConfig defines a spawnable ooze variant. Variants of the same
// family merge with each other.
type VariantConfig struct {
	Name        string  `yaml:"name"`
	Family      string  `yaml:"family"`       // Merge family (empty = DefaultFamily)
	Weight      float64 `yaml:"weight"`       // Relative spawn weight
	InitialSize int     `yaml:"initial_size"` // Size applied at spawn initialization
}

// PopulationConfig holds initial counts and respawn rules.
type PopulationConfig struct {
	Oozes            int `yaml:"oozes"`
	Players          int `yaml:"players"`
	Creatures        int `yaml:"creatures"`
	Companions       int `yaml:"companions"`
	Charges          int `yaml:"charges"`
	ChargeCarts      int `yaml:"charge_carts"`
	FloatingBlocks   int `yaml:"floating_blocks"`
	Items            int `yaml:"items"`
	SeedItems        int `yaml:"seed_items"`
	Structures       int `yaml:"structures"`
	RespawnThreshold int `yaml:"respawn_threshold"` // Respawn oozes when fewer are alive
	RespawnAttempts  int `yaml:"respawn_attempts"`  // Spawn attempts per tick while below threshold
}

// CombatConfig holds damage and knockback parameters.
type CombatConfig struct {
	InvulnerableTicks int     `yaml:"invulnerable_ticks"` // Hurt cooldown after taking damage
	Knockback         float64 `yaml:"knockback"`          // Horizontal impulse at zero resistance
	KnockbackLift     float64 `yaml:"knockback_lift"`     // Upward impulse at zero resistance
	SafeFallDistance  float64 `yaml:"safe_fall_distance"` // Falls shorter than this deal no damage
	PlayerHealth      float64 `yaml:"player_health"`
	CreatureHealth    float64 `yaml:"creature_health"`
	FeedChance        float64 `yaml:"feed_chance"` // Per-tick chance an adjacent player feeds an ooze
}

// ChargeConfig holds explosive charge parameters.
type ChargeConfig struct {
	Fuse        int     `yaml:"fuse"`         // Ticks until detonation
	BlastRadius float64 `yaml:"blast_radius"` // Damage falls off to zero at this distance
	BlastDamage float64 `yaml:"blast_damage"` // Damage at the center
}

// ItemConfig holds loose item parameters.
type ItemConfig struct {
	DespawnAge  int      `yaml:"despawn_age"`  // Ticks before a loose item disappears
	SeedItem    string   `yaml:"seed_item"`    // Item that grows an ooze on contact
	GrowthItems []string `yaml:"growth_items"` // Items a player can feed to grow an ooze
	LooseKinds  []string `yaml:"loose_kinds"`  // Item kinds scattered at world start
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	MergeCascade    MergeCascadeConfig    `yaml:"merge_cascade"`
	Giant           GiantConfig           `yaml:"giant"`
	PopulationCrash PopulationCrashConfig `yaml:"population_crash"`
}

// MergeCascadeConfig flags windows with unusually many merges.
type MergeCascadeConfig struct {
	MinMerges  int     `yaml:"min_merges"`
	Multiplier float64 `yaml:"multiplier"` // Merges must exceed the rolling average times this
}

// GiantConfig flags the first window where an ooze reaches a size.
type GiantConfig struct {
	Size int `yaml:"size"`
}

// PopulationCrashConfig flags sudden drops in ooze population.
type PopulationCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// PersistenceConfig holds the creature store settings.
type PersistenceConfig struct {
	DBPath    string `yaml:"db_path"`    // Empty disables persistence
	SaveEvery int    `yaml:"save_every"` // Ticks between saves (0 = only on exit)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	VariantIndex  map[string]uint8 // variant name -> index into Variants
	VariantWeight float64          // Sum of variant weights
	VariantFamily []uint8          // variant index -> merge family index
	FamilyIndex   map[string]uint8 // family name -> index, in order of first use
	GrowthItems   map[string]bool
	Difficulty    int // Parsed world difficulty, 0 = peaceful
}

// Difficulty names in ascending order.
var difficultyNames = []string{"peaceful", "easy", "normal", "hard"}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if len(c.Variants) == 0 {
		c.Variants = []VariantConfig{
			{Name: "blue", Weight: 1, InitialSize: 2},
			{Name: "purple", Weight: 1, InitialSize: 2},
			{Name: "white", Weight: 1, InitialSize: 2},
			{Name: "golden", Weight: 0.25, InitialSize: 2},
		}
	}

	c.Derived.VariantIndex = make(map[string]uint8, len(c.Variants))
	c.Derived.VariantFamily = make([]uint8, len(c.Variants))
	c.Derived.FamilyIndex = make(map[string]uint8)
	c.Derived.VariantWeight = 0
	for i := range c.Variants {
		v := &c.Variants[i]
		if v.InitialSize == 0 {
			v.InitialSize = 2
		}
		if v.Family == "" {
			v.Family = DefaultFamily
		}
		fam, ok := c.Derived.FamilyIndex[v.Family]
		if !ok {
			fam = uint8(len(c.Derived.FamilyIndex))
			c.Derived.FamilyIndex[v.Family] = fam
		}
		c.Derived.VariantIndex[v.Name] = uint8(i)
		c.Derived.VariantFamily[i] = fam
		c.Derived.VariantWeight += v.Weight
	}

	c.Derived.GrowthItems = make(map[string]bool, len(c.Items.GrowthItems))
	for _, name := range c.Items.GrowthItems {
		c.Derived.GrowthItems[name] = true
	}

	c.Derived.Difficulty = ParseDifficulty(c.World.Difficulty)
}

// ParseDifficulty maps a difficulty name to its ordinal. Unknown names map to normal.
func ParseDifficulty(name string) int {
	for i, n := range difficultyNames {
		if n == name {
			return i
		}
	}
	return 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
