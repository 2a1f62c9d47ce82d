package progress

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testDefaults = Defaults{
	TotalLevels: 3,
	QuestIDs:    []string{"Quest 1", "Quest 2", "Quest 3"},
	Health:      100,
	Damage:      10,
	Speed:       5,
}

func newTestStore(b Backend) *Store {
	return NewStore(b, "alice", testDefaults, log.New(io.Discard))
}

func TestDefault(t *testing.T) {
	p := Default(testDefaults)
	assert.Equal(t, []LevelRecord{
		{Level: 1, Locked: false},
		{Level: 2, Locked: true},
		{Level: 3, Locked: true},
	}, p.Levels)
	assert.Len(t, p.Quests, 3)
	assert.Equal(t, 10, p.Damage)
	assert.Zero(t, p.TotalReward)
}

func TestLoadMissingGivesDefault(t *testing.T) {
	s := newTestStore(NewMemoryBackend())
	assert.Equal(t, Default(testDefaults), s.Load())
}

func TestLoadCorruptGivesDefault(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Write("alice", []byte("{not json")))
	s := newTestStore(b)
	assert.Equal(t, Default(testDefaults), s.Load())

	require.NoError(t, b.Write("alice", []byte(`{"levels":[{"level":2}]}`)))
	assert.Equal(t, Default(testDefaults), s.Load())
}

func TestLoadNormalizes(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Write("alice", []byte(`{
		"levels": [{"level": 1, "star": 7, "locked": true}],
		"quests": [{"id": "Quest 1", "completed": true}],
		"damage": 25,
		"totalReward": 40
	}`)))
	p := newTestStore(b).Load()

	assert.Equal(t, []LevelRecord{
		{Level: 1, Stars: 3},
		{Level: 2, Locked: true},
		{Level: 3, Locked: true},
	}, p.Levels)
	assert.True(t, p.Quest("Quest 1").Completed)
	assert.NotNil(t, p.Quest("Quest 3"))
	assert.Equal(t, 25, p.Damage)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 40, p.TotalReward)
}

func TestRecordCompletionWolfScenario(t *testing.T) {
	b := NewMemoryBackend()
	s := newTestStore(b)
	s.Load()

	require.NoError(t, s.RecordCompletion(1, 2, 20))
	p := s.Snapshot()
	assert.Equal(t, 20, p.TotalReward)
	assert.Equal(t, 2, p.Levels[0].Stars)
	assert.False(t, p.Levels[1].Locked)
	assert.True(t, p.Levels[2].Locked)

	stored, err := b.Read("alice")
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"totalReward": 20`)
	assert.Contains(t, string(stored), `"star": 2`)
}

func TestRecordCompletionNeverLowersStars(t *testing.T) {
	s := newTestStore(NewMemoryBackend())
	require.NoError(t, s.RecordCompletion(1, 2, 20))
	require.NoError(t, s.RecordCompletion(1, 1, 10))

	p := s.Snapshot()
	assert.Equal(t, 2, p.Levels[0].Stars)
	assert.Equal(t, 30, p.TotalReward)
}

func TestRecordCompletionUnknownLevelCreditsRewardOnly(t *testing.T) {
	s := newTestStore(NewMemoryBackend())
	before := s.Snapshot()
	require.NoError(t, s.RecordCompletion(9, 3, 50))

	after := s.Snapshot()
	assert.Equal(t, 50, after.TotalReward)
	assert.Equal(t, before.Levels, after.Levels)
}

func TestRecordCompletionLastLevel(t *testing.T) {
	s := newTestStore(NewMemoryBackend())
	require.NoError(t, s.RecordCompletion(3, 3, 0))
	assert.Equal(t, 3, s.Snapshot().Levels[2].Stars)
	assert.Len(t, s.Snapshot().Levels, 3)
}

func TestRecordCompletionIgnoresNegativeReward(t *testing.T) {
	s := newTestStore(NewMemoryBackend())
	require.NoError(t, s.RecordCompletion(1, 1, -5))
	assert.Zero(t, s.Snapshot().TotalReward)
}

func TestRecordCompletionSaturates(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Write("alice", []byte(`{"levels":[{"level":1}],"totalReward":9223372036854775800}`)))
	s := newTestStore(b)
	s.Load()
	require.NoError(t, s.RecordCompletion(1, 1, 100))
	assert.Equal(t, math.MaxInt, s.Snapshot().TotalReward)
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	b := NewMemoryBackend()
	b.WriteErr = errors.New("read-only")
	s := newTestStore(b)

	err := s.RecordCompletion(1, 3, 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, b.WriteErr)
	assert.Equal(t, 30, s.Snapshot().TotalReward)
	assert.False(t, s.Unlocked(3))
	assert.True(t, s.Unlocked(2))

	b.WriteErr = nil
	require.NoError(t, s.CompleteQuest("Quest 1"))
	stored, err := b.Read("alice")
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"totalReward": 30`, "retried on next mutation")
}

func TestCompleteQuest(t *testing.T) {
	s := newTestStore(NewMemoryBackend())
	require.NoError(t, s.CompleteQuest("Quest 2"))
	require.NoError(t, s.CompleteQuest("Bonus"))

	p := s.Snapshot()
	assert.True(t, p.Quest("Quest 2").Completed)
	assert.False(t, p.Quest("Quest 1").Completed)
	assert.True(t, p.Quest("Bonus").Completed)
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestStore(NewMemoryBackend())
	p := s.Snapshot()
	p.Levels[0].Stars = 3
	assert.Zero(t, s.Snapshot().Levels[0].Stars)
}

func TestFileBackendRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	b := NewFileBackend(dir)

	_, err := b.Read("bob")
	assert.ErrorIs(t, err, ErrNotFound)

	players, err := b.List()
	require.NoError(t, err)
	assert.Empty(t, players)

	s := NewStore(b, "bob", testDefaults, log.New(io.Discard))
	require.NoError(t, s.RecordCompletion(1, 3, 30))

	reloaded := NewStore(b, "bob", testDefaults, log.New(io.Discard)).Load()
	assert.Equal(t, s.Snapshot(), reloaded)

	players, err = b.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, players)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSanitizePlayer(t *testing.T) {
	assert.Equal(t, "alice", SanitizePlayer("alice"))
	assert.Equal(t, "___etc_passwd", SanitizePlayer("../etc/passwd"))
	assert.Equal(t, "player", SanitizePlayer(""))
}

func TestNewStoreRequiresBackend(t *testing.T) {
	assert.Panics(t, func() { NewStore(nil, "x", testDefaults, nil) })
}

func TestStarsNeverDecrease(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStore(NewMemoryBackend(), "p", testDefaults, log.New(io.Discard))
		best := map[int]int{}
		n := rapid.IntRange(1, 20).Draw(t, "n")
		for i := 0; i < n; i++ {
			level := rapid.IntRange(0, 5).Draw(t, "level")
			stars := rapid.IntRange(-1, 5).Draw(t, "stars")
			if err := s.RecordCompletion(level, stars, rapid.IntRange(-10, 100).Draw(t, "reward")); err != nil {
				t.Fatal(err)
			}
			if level >= 1 && level <= testDefaults.TotalLevels {
				best[level] = max(best[level], max(0, min(stars, MaxStars)))
			}
			p := s.Snapshot()
			for l, want := range best {
				if got := p.Levels[l-1].Stars; got != want {
					t.Fatalf("level %d stars = %d, want %d", l, got, want)
				}
				if l < testDefaults.TotalLevels && p.Levels[l].Locked {
					t.Fatalf("level %d still locked after completing %d", l+1, l)
				}
			}
			if p.TotalReward < 0 {
				t.Fatalf("negative total reward")
			}
		}
	})
}
