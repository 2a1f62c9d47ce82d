// Package progress stores what a player has unlocked and earned.
package progress

import (
	"encoding/json"
	"fmt"
)

// MaxStars is the highest star count a level record can hold.
const MaxStars = 3

// LevelRecord is the best result on one level.
type LevelRecord struct {
	Level  int  `json:"level"`
	Stars  int  `json:"star"`
	Locked bool `json:"locked"`
}

// QuestRecord marks whether a quest was ever completed.
type QuestRecord struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// PlayerProgress is the persisted state of one player.
type PlayerProgress struct {
	Levels      []LevelRecord `json:"levels"`
	Quests      []QuestRecord `json:"quests"`
	Health      int           `json:"health"`
	Damage      int           `json:"damage"`
	Speed       int           `json:"speed"`
	TotalReward int           `json:"totalReward"`
}

// Defaults describe a fresh player.
type Defaults struct {
	TotalLevels int
	QuestIDs    []string
	Health      int
	Damage      int
	Speed       int
}

// Default returns progress with every level locked but the first.
func Default(d Defaults) PlayerProgress {
	p := PlayerProgress{
		Levels: make([]LevelRecord, 0, d.TotalLevels),
		Quests: make([]QuestRecord, 0, len(d.QuestIDs)),
		Health: d.Health,
		Damage: d.Damage,
		Speed:  d.Speed,
	}
	for i := 1; i <= d.TotalLevels; i++ {
		p.Levels = append(p.Levels, LevelRecord{Level: i, Locked: i > 1})
	}
	for _, id := range d.QuestIDs {
		p.Quests = append(p.Quests, QuestRecord{ID: id})
	}
	return p
}

// Clone returns a deep copy.
func (p PlayerProgress) Clone() PlayerProgress {
	c := p
	c.Levels = append([]LevelRecord(nil), p.Levels...)
	c.Quests = append([]QuestRecord(nil), p.Quests...)
	return c
}

// Level returns the record of a level, or nil.
func (p *PlayerProgress) Level(level int) *LevelRecord {
	if level < 1 || level > len(p.Levels) {
		return nil
	}
	return &p.Levels[level-1]
}

// Unlocked reports whether a level can be played.
func (p *PlayerProgress) Unlocked(level int) bool {
	rec := p.Level(level)
	return rec != nil && !rec.Locked
}

// Quest returns the record of a quest id, or nil.
func (p *PlayerProgress) Quest(id string) *QuestRecord {
	for i := range p.Quests {
		if p.Quests[i].ID == id {
			return &p.Quests[i]
		}
	}
	return nil
}

// Encode serializes progress as indented JSON.
func Encode(p PlayerProgress) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Decode parses stored progress and brings it in line with d: levels are
// extended to the catalog size, stars clamped, missing quests and unset
// stats filled in. Level records that are not numbered 1..N are rejected.
func Decode(data []byte, d Defaults) (PlayerProgress, error) {
	var p PlayerProgress
	if err := json.Unmarshal(data, &p); err != nil {
		return PlayerProgress{}, fmt.Errorf("decode progress: %w", err)
	}
	for i, rec := range p.Levels {
		if rec.Level != i+1 {
			return PlayerProgress{}, fmt.Errorf("decode progress: level record %d has level %d", i, rec.Level)
		}
	}

	for i := range p.Levels {
		p.Levels[i].Stars = max(0, min(p.Levels[i].Stars, MaxStars))
	}
	for i := len(p.Levels) + 1; i <= d.TotalLevels; i++ {
		p.Levels = append(p.Levels, LevelRecord{Level: i, Locked: true})
	}
	if len(p.Levels) > 0 {
		p.Levels[0].Locked = false
	}

	for _, id := range d.QuestIDs {
		if p.Quest(id) == nil {
			p.Quests = append(p.Quests, QuestRecord{ID: id})
		}
	}

	if p.Health <= 0 {
		p.Health = d.Health
	}
	if p.Damage <= 0 {
		p.Damage = d.Damage
	}
	if p.Speed <= 0 {
		p.Speed = d.Speed
	}
	p.TotalReward = max(0, p.TotalReward)
	return p, nil
}
