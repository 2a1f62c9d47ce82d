package progress

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// Store owns one player's progress and writes it through to a Backend on
// every change. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	player   string
	defaults Defaults
	logger   *log.Logger
	data     PlayerProgress
}

// NewStore creates a store holding default progress until Load is called.
// It panics if backend is nil.
func NewStore(backend Backend, player string, defaults Defaults, logger *log.Logger) *Store {
	if backend == nil {
		panic("progress: NewStore requires a Backend")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		backend:  backend,
		player:   player,
		defaults: defaults,
		logger:   logger.With("player", player),
		data:     Default(defaults),
	}
}

// Load reads the player's progress. Missing or unreadable progress is
// replaced by the defaults; Load never fails.
func (s *Store) Load() PlayerProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Read(s.player)
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.Info("no saved progress, starting fresh")
		s.data = Default(s.defaults)
	case err != nil:
		s.logger.Warn("progress unreadable, using defaults", "err", err)
		s.data = Default(s.defaults)
	default:
		p, err := Decode(data, s.defaults)
		if err != nil {
			s.logger.Warn("progress corrupt, using defaults", "err", err)
			s.data = Default(s.defaults)
		} else {
			s.data = p
		}
	}
	return s.data.Clone()
}

// Save writes the current progress. On failure the in-memory state is kept
// and the next mutation retries.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := Encode(s.data)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.backend.Write(s.player, data); err != nil {
		return fmt.Errorf("save progress for %s: %w", s.player, err)
	}
	return nil
}

// RecordCompletion credits the reward, keeps the best star count for the
// level and unlocks the next level. A level without a record only credits
// the reward.
func (s *Store) RecordCompletion(level, stars, reward int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reward > 0 {
		if s.data.TotalReward > math.MaxInt-reward {
			s.data.TotalReward = math.MaxInt
		} else {
			s.data.TotalReward += reward
		}
	}

	if rec := s.data.Level(level); rec != nil {
		rec.Stars = max(rec.Stars, max(0, min(stars, MaxStars)))
		if next := s.data.Level(level + 1); next != nil && next.Locked {
			next.Locked = false
			s.logger.Info("level unlocked", "level", level+1)
		}
	} else {
		s.logger.Debug("no record for level, reward only", "level", level)
	}

	return s.saveLocked()
}

// CompleteQuest marks a quest id completed, adding a record if needed.
func (s *Store) CompleteQuest(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec := s.data.Quest(id); rec != nil {
		rec.Completed = true
	} else {
		s.data.Quests = append(s.data.Quests, QuestRecord{ID: id, Completed: true})
	}
	return s.saveLocked()
}

// Snapshot returns a copy of the current progress.
func (s *Store) Snapshot() PlayerProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Damage returns the player's arrow damage.
func (s *Store) Damage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Damage
}

// Speed returns the player's speed stat.
func (s *Store) Speed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Speed
}

// Unlocked reports whether a level can be played.
func (s *Store) Unlocked(level int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Unlocked(level)
}

// Player returns the name the progress is stored under.
func (s *Store) Player() string {
	return s.player
}
