// Package celebrate renders one-shot confetti bursts for completion
// feedback. Particles are simulated as tiny bodies in a Chipmunk space
// so they tumble and fall believably without hand-rolled integration.
package celebrate

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

const (
	gravity      = 600.0
	particleLife = 2.5 // seconds
	particleSize = 6.0
)

type particle struct {
	body *cp.Body
	clr  color.RGBA
	age  float64
}

type Confetti struct {
	space     *cp.Space
	particles []particle
	white     *ebiten.Image
}

func New() *Confetti {
	space := cp.NewSpace()
	space.Iterations = 4
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &Confetti{space: space, white: white}
}

// Burst spawns count particles at a screen point, tinted with the given
// colors. Small bursts mark a completed color; the all-done burst is
// bigger.
func (c *Confetti) Burst(x, y float64, count int, colors []color.RGBA) {
	if len(colors) == 0 {
		colors = []color.RGBA{{R: 0xff, G: 0xd2, B: 0x4b, A: 0xff}}
	}
	for i := 0; i < count; i++ {
		body := cp.NewBody(1, cp.MomentForBox(1, particleSize, particleSize))
		body.SetPosition(cp.Vector{X: x, Y: y})
		angle := rand.Float64()*math.Pi - math.Pi // upward half
		speed := 200 + rand.Float64()*350
		body.SetVelocity(math.Cos(angle)*speed, math.Sin(angle)*speed)
		body.SetAngularVelocity(rand.Float64()*12 - 6)
		c.space.AddBody(body)
		c.particles = append(c.particles, particle{
			body: body,
			clr:  colors[rand.Intn(len(colors))],
		})
	}
}

// Active reports whether any particles are still alive.
func (c *Confetti) Active() bool { return len(c.particles) > 0 }

// Update steps the simulation and retires expired particles.
func (c *Confetti) Update(dt float64) {
	if len(c.particles) == 0 {
		return
	}
	c.space.Step(dt)
	live := c.particles[:0]
	for _, p := range c.particles {
		p.age += dt
		if p.age >= particleLife {
			c.space.RemoveBody(p.body)
			continue
		}
		live = append(live, p)
	}
	c.particles = live
}

// Draw renders each particle as a rotated quad, fading out with age.
func (c *Confetti) Draw(screen *ebiten.Image) {
	for _, p := range c.particles {
		pos := p.body.Position()
		alpha := 1 - p.age/particleLife
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(particleSize, particleSize)
		op.GeoM.Translate(-particleSize/2, -particleSize/2)
		op.GeoM.Rotate(p.body.Angle())
		op.GeoM.Translate(pos.X, pos.Y)
		op.ColorScale.ScaleWithColor(p.clr)
		op.ColorScale.ScaleAlpha(float32(alpha))
		screen.DrawImage(c.white, op)
	}
}
