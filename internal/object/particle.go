package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/hunt/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect: dust from an arrow hit or a kill.
type Particle struct {
	Pos         physics.Vec2
	Vel         physics.Vec2
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
	Drag        float64 // Velocity kept per 1/60s (1.0 = no drag)
	Symbol      rune
}

// NewParticle takes a particle from the pool.
func NewParticle(pos, vel physics.Vec2, lifetime float64, symbol rune) *Particle {
	p := particlePool.Get().(*Particle)
	p.Pos = pos
	p.Vel = vel
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.9
	p.Symbol = symbol
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

var (
	hitSymbols  = []rune{'*', '+', '\''}
	killSymbols = []rune{'*', '%', '#', ','}
)

// SpawnHit throws a few sparks where an arrow struck.
func SpawnHit(pos physics.Vec2, rng *rand.Rand, spawner Spawner) {
	spawnBurst(pos, 3, 6, 0.3, hitSymbols, rng, spawner)
}

// SpawnKill throws a larger burst where an animal died.
func SpawnKill(pos physics.Vec2, rng *rand.Rand, spawner Spawner) {
	spawnBurst(pos, 8, 10, 0.6, killSymbols, rng, spawner)
}

func spawnBurst(pos physics.Vec2, count int, speed, lifetime float64, symbols []rune, rng *rand.Rand, spawner Spawner) {
	if spawner == nil || rng == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rng.Float64())
		life := lifetime * (0.5 + rng.Float64()*0.5)
		symbol := symbols[rng.Intn(len(symbols))]
		spawner.Spawn(NewParticle(pos, physics.FromAngle(angle).Scale(spd), life, symbol))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	p.Vel = p.Vel.Scale(math.Pow(p.Drag, dt*60))
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))

	// Particles just vanish at the edges
	if ctx.Field.Width > 0 && !ctx.Field.Contains(p.Pos) {
		return true, nil
	}
	return false, nil
}

// Draw renders the particle until its last quarter of life.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return nil
	}
	ctx.Canvas.SetFloat(p.Pos.X, p.Pos.Y, p.Symbol)
	return nil
}
