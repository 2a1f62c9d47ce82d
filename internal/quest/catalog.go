package quest

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed quests.toml
var defaultQuests string

// Catalog is the ordered set of quests, one per level.
type Catalog struct {
	quests  []Quest
	byLevel map[int]int
}

type catalogFile struct {
	Quest []Quest `toml:"quest"`
}

// DefaultCatalog returns the built-in quests.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultQuests)
}

// LoadCatalog reads quests from a TOML file; an empty path gives the
// built-in quests.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	var f catalogFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode quests %s: %w", path, err)
	}
	return NewCatalog(f.Quest)
}

// ParseCatalog decodes quests from TOML text.
func ParseCatalog(data string) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode quests: %w", err)
	}
	return NewCatalog(f.Quest)
}

// NewCatalog validates quests and orders them by level. Levels must be
// unique and run from 1 without gaps.
func NewCatalog(quests []Quest) (*Catalog, error) {
	if len(quests) == 0 {
		return nil, errors.New("quest catalog is empty")
	}

	var errs []error
	sorted := make([]Quest, len(quests))
	copy(sorted, quests)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	c := &Catalog{quests: sorted, byLevel: make(map[int]int, len(sorted))}
	ids := make(map[string]bool, len(sorted))
	for i := range sorted {
		q := &sorted[i]
		if err := q.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, dup := c.byLevel[q.Level]; dup {
			errs = append(errs, fmt.Errorf("level %d defined twice", q.Level))
		} else if q.Level != i+1 && q.Level >= 1 {
			errs = append(errs, fmt.Errorf("level %d out of sequence, expected %d", q.Level, i+1))
		}
		if ids[q.ID] {
			errs = append(errs, fmt.Errorf("quest id %q defined twice", q.ID))
		}
		ids[q.ID] = true
		c.byLevel[q.Level] = i
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// ForLevel returns the quest of a level.
func (c *Catalog) ForLevel(level int) (*Quest, bool) {
	i, ok := c.byLevel[level]
	if !ok {
		return nil, false
	}
	return &c.quests[i], true
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.quests)
}

// Levels returns the level numbers in order.
func (c *Catalog) Levels() []int {
	out := make([]int, len(c.quests))
	for i, q := range c.quests {
		out[i] = q.Level
	}
	return out
}

// QuestIDs returns the quest ids in level order.
func (c *Catalog) QuestIDs() []string {
	out := make([]string, len(c.quests))
	for i, q := range c.quests {
		out[i] = q.ID
	}
	return out
}
