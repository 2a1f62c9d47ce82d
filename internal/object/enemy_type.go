// Package object holds the entities living on the hunting field: the player,
// arrows, animals and short-lived effects.
package object

import (
	"fmt"
	"strings"
)

// EnemyType identifies which quest objective an animal counts toward.
type EnemyType int

const (
	Deer EnemyType = iota + 1
	Fox
	Wolf
	Rabbit
	Boar
)

var enemyTypeNames = map[EnemyType]string{
	Deer:   "deer",
	Fox:    "fox",
	Wolf:   "wolf",
	Rabbit: "rabbit",
	Boar:   "boar",
}

// Glyphs used to draw each animal.
var enemyGlyphs = map[EnemyType]rune{
	Deer:   'D',
	Fox:    'F',
	Wolf:   'W',
	Rabbit: 'r',
	Boar:   'B',
}

// EnemyTypes lists every known type in declaration order.
func EnemyTypes() []EnemyType {
	return []EnemyType{Deer, Fox, Wolf, Rabbit, Boar}
}

func (t EnemyType) String() string {
	if name, ok := enemyTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("enemy(%d)", int(t))
}

// Valid reports whether t is a known type.
func (t EnemyType) Valid() bool {
	_, ok := enemyTypeNames[t]
	return ok
}

// Glyph returns the rune used to draw t.
func (t EnemyType) Glyph() rune {
	if g, ok := enemyGlyphs[t]; ok {
		return g
	}
	return '?'
}

// ParseEnemyType converts a case-insensitive name to an EnemyType.
func ParseEnemyType(name string) (EnemyType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range enemyTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown enemy type %q", name)
}

// UnmarshalText lets EnemyType be decoded from TOML and JSON strings.
func (t *EnemyType) UnmarshalText(text []byte) error {
	parsed, err := ParseEnemyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText encodes the type by name.
func (t EnemyType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid enemy type %d", int(t))
	}
	return []byte(t.String()), nil
}
