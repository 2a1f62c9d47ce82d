// Package quest defines hunting quests, tracks kills against their
// objectives and turns the completion time into stars and a reward.
package quest

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tomz197/hunt/internal/object"
)

// TargetKind is what an objective counts.
type TargetKind int

const (
	Kill    TargetKind = iota // Kill animals of a type
	Collect                   // Pick up items; declared in data only
)

func (k TargetKind) String() string {
	switch k {
	case Kill:
		return "kill"
	case Collect:
		return "collect"
	default:
		return "unknown"
	}
}

// UnmarshalText decodes "kill" or "collect".
func (k *TargetKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "kill", "":
		*k = Kill
	case "collect":
		*k = Collect
	default:
		return fmt.Errorf("unknown objective kind %q", text)
	}
	return nil
}

// MarshalText encodes the kind by name.
func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Objective is a single countable requirement.
type Objective struct {
	Kind     TargetKind `toml:"kind"`
	Target   string     `toml:"target"` // Enemy type for kills, item name for collects
	Required int        `toml:"required"`
}

// KillObjective builds a kill objective for an enemy type.
func KillObjective(kind object.EnemyType, required int) Objective {
	return Objective{Kind: Kill, Target: kind.String(), Required: required}
}

// Enemy resolves the target of a kill objective.
func (o Objective) Enemy() (object.EnemyType, bool) {
	if o.Kind != Kill {
		return 0, false
	}
	t, err := object.ParseEnemyType(o.Target)
	if err != nil {
		return 0, false
	}
	return t, true
}

// Quest is the goal of one level.
type Quest struct {
	ID            string      `toml:"id"`
	Level         int         `toml:"level"`
	Description   string      `toml:"description"`
	TimeFor3Stars float64     `toml:"time_for_3_stars"`
	TimeFor2Stars float64     `toml:"time_for_2_stars"`
	Rewards       []int       `toml:"rewards"` // Indexed by stars-1
	Objectives    []Objective `toml:"objective"`
}

// Validate checks the quest definition and returns every problem found.
func (q *Quest) Validate() error {
	var errs []error
	if q.Level < 1 {
		errs = append(errs, fmt.Errorf("level %d must be at least 1", q.Level))
	}
	if q.TimeFor3Stars <= 0 || q.TimeFor3Stars > q.TimeFor2Stars {
		errs = append(errs, fmt.Errorf("star times must satisfy 0 < 3-star (%g) <= 2-star (%g)",
			q.TimeFor3Stars, q.TimeFor2Stars))
	}
	if len(q.Objectives) == 0 {
		errs = append(errs, errors.New("no objectives"))
	} else if !slices.ContainsFunc(q.Objectives, func(o Objective) bool { return o.Kind == Kill }) {
		errs = append(errs, errors.New("no kill objectives; collect objectives are not yet produced by any event"))
	}
	for i, o := range q.Objectives {
		if o.Required <= 0 {
			errs = append(errs, fmt.Errorf("objective %d: required must be positive, got %d", i+1, o.Required))
		}
		if o.Kind == Kill {
			if _, err := object.ParseEnemyType(o.Target); err != nil {
				errs = append(errs, fmt.Errorf("objective %d: %w", i+1, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("quest %q: %w", q.ID, err)
	}
	return nil
}

// KillTargets sums the required kills per enemy type.
func (q *Quest) KillTargets() map[object.EnemyType]int {
	targets := make(map[object.EnemyType]int)
	for _, o := range q.Objectives {
		if t, ok := o.Enemy(); ok {
			targets[t] += o.Required
		}
	}
	return targets
}

// Describe summarises the objectives, e.g. "Hunt 2 wolf, 1 fox, Collect 3 items".
func (q *Quest) Describe() string {
	var kills, collects []string
	for _, o := range q.Objectives {
		switch o.Kind {
		case Kill:
			kills = append(kills, strconv.Itoa(o.Required)+" "+strings.ToLower(o.Target))
		case Collect:
			if o.Required == 1 {
				collects = append(collects, "1 item")
			} else {
				collects = append(collects, strconv.Itoa(o.Required)+" items")
			}
		}
	}

	var parts []string
	if len(kills) > 0 {
		parts = append(parts, "Hunt "+strings.Join(kills, ", "))
	}
	if len(collects) > 0 {
		parts = append(parts, "Collect "+strings.Join(collects, ", "))
	}
	return strings.Join(parts, ", ")
}
