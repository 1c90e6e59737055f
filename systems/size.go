package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

// SizeController is the only writer of Ooze.Size. Every change rescales the
// attributes, the body and the health cap together.
type SizeController struct {
	oozes  *ecs.Map[components.Ooze]
	bodies *ecs.Map[components.Body]
	living *ecs.Map[components.Living]
	hooks  Hooks

	minSize int32
	maxSize int32
	base    float64
	scale   float64
}

// NewSizeController creates a size controller bound to a world.
func NewSizeController(w *ecs.World, cfg *config.Config, hooks Hooks) *SizeController {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &SizeController{
		oozes:   ecs.NewMap[components.Ooze](w),
		bodies:  ecs.NewMap[components.Body](w),
		living:  ecs.NewMap[components.Living](w),
		hooks:   hooks,
		minSize: ClampSize(int32(cfg.Ooze.MinSize)),
		maxSize: ClampSize(int32(cfg.Ooze.MaxSize)),
		base:    cfg.Ooze.BaseDimension,
		scale:   cfg.Ooze.DimensionScale,
	}
}

// SetSize clamps and applies a new size. With heal set, health is restored to
// the new maximum. Returns the size actually applied.
func (c *SizeController) SetSize(e ecs.Entity, size int32, heal bool, cause GrowthCause) int32 {
	if size < c.minSize {
		size = c.minSize
	}
	if size > c.maxSize {
		size = c.maxSize
	}

	ooze := c.oozes.Get(e)
	from := ooze.Size
	ooze.Size = size
	ooze.Attributes = Rescale(size)

	if c.bodies.Has(e) {
		body := c.bodies.Get(e)
		dim := Dimension(c.base, c.scale, size)
		body.Width = dim
		body.Height = dim
	}

	if c.living.Has(e) {
		living := c.living.Get(e)
		living.MaxHealth = ooze.Attributes.MaxHealth
		if heal || living.Health > living.MaxHealth {
			living.Health = living.MaxHealth
		}
	}

	c.hooks.SizeChanged(e, from, size, cause)
	return size
}

// Grow adds delta to the current size.
func (c *SizeController) Grow(e ecs.Entity, delta int32, heal bool, cause GrowthCause) int32 {
	return c.SetSize(e, c.oozes.Get(e).Size+delta, heal, cause)
}
