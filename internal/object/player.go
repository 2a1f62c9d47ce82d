package object

import (
	"math"

	"github.com/tomz197/hunt/internal/combat"
	"github.com/tomz197/hunt/internal/physics"
)

// DamageSource reports the player's current damage stat.
type DamageSource interface {
	Damage() int
}

// PlayerConfig holds the player's movement and arrow tunables.
type PlayerConfig struct {
	MoveSpeed     float64 // Field units per second
	ArrowSpeed    float64
	ArrowLifetime float64
}

// Player is the hunter. Movement is locked while the bow is firing.
type Player struct {
	Pos    physics.Vec2
	Facing physics.Vec2 // Unit vector, last movement direction

	gate   *combat.Gate
	cfg    PlayerConfig
	damage DamageSource
	aim    Aimer
}

// NewPlayer creates a hunter facing up. It panics if gate or damage is nil.
func NewPlayer(pos physics.Vec2, gate *combat.Gate, cfg PlayerConfig, damage DamageSource, aim Aimer) *Player {
	if gate == nil || damage == nil {
		panic("object: NewPlayer requires a gate and a damage source")
	}
	if aim == nil {
		aim = FacingAim{}
	}
	return &Player{
		Pos:    pos,
		Facing: physics.Vec2{X: 0, Y: -1},
		gate:   gate,
		cfg:    cfg,
		damage: damage,
		aim:    aim,
	}
}

// Gate returns the player's shooting gate.
func (p *Player) Gate() *combat.Gate {
	return p.gate
}

// Update ticks the gate, moves the player and handles shooting.
func (p *Player) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()
	p.gate.Tick(dt)

	var move physics.Vec2
	if ctx.Input.Left {
		move.X -= 1
	}
	if ctx.Input.Right {
		move.X += 1
	}
	if ctx.Input.Up {
		move.Y -= 1
	}
	if ctx.Input.Down {
		move.Y += 1
	}
	if !move.IsZero() && !p.gate.IsFiring() {
		move = move.Normalized()
		p.Facing = move
		p.Pos = p.Pos.Add(move.Scale(p.cfg.MoveSpeed * dt))
		if ctx.Field.Width > 0 {
			p.Pos = ctx.Field.Clamp(p.Pos)
		}
	}

	if ctx.Input.Space {
		p.Shoot(ctx.Spawner)
	}

	return false, nil
}

// Shoot requests a shot from the gate and spawns an arrow if it was accepted.
func (p *Player) Shoot(spawner Spawner) bool {
	dir := p.aim.Aim(p.Pos, p.Facing)
	if dir.IsZero() {
		return false
	}
	shot, ok := p.gate.RequestShot(p.Pos, dir, p.damage.Damage())
	if !ok {
		return false
	}
	if spawner != nil {
		spawner.Spawn(NewProjectile(shot.Origin, shot.Direction, shot.Damage, p.cfg.ArrowSpeed, p.cfg.ArrowLifetime))
	}
	return true
}

// Draw renders the hunter and, when the bow is ready, a marker in front.
func (p *Player) Draw(ctx DrawContext) error {
	ctx.Canvas.SetFloat(p.Pos.X, p.Pos.Y, '@')
	if p.gate.State() == combat.Ready {
		ahead := p.Pos.Add(p.Facing.Scale(math.Sqrt2))
		ctx.Canvas.SetFloat(ahead.X, ahead.Y, '.')
	}
	return nil
}
