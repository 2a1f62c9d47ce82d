package quest

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/hunt/internal/object"
)

// Recorder persists a completed quest.
type Recorder interface {
	RecordCompletion(level, stars, reward int) error
	CompleteQuest(id string) error
}

// Presenter receives quest notifications. Calls are fire-and-forget.
type Presenter interface {
	OnQuestComplete(stars, reward int)
	OnTimeUpdated(formatted string)
}

// Freezer stops the simulation clock once the quest is done.
type Freezer interface {
	Freeze()
}

// Result is the outcome of a completed quest.
type Result struct {
	Stars   int
	Reward  int
	Elapsed float64
}

// ObjectiveStatus is the kill count for one enemy type.
type ObjectiveStatus struct {
	Type     object.EnemyType
	Count    int
	Required int
}

// Tracker counts kills for the running quest and completes it exactly once.
type Tracker struct {
	recorder  Recorder
	presenter Presenter
	freezer   Freezer
	logger    *log.Logger

	quest     *Quest
	level     int
	required  map[object.EnemyType]int
	progress  map[object.EnemyType]int
	elapsed   float64
	started   bool
	completed bool
	result    Result
}

var _ object.KillReporter = (*Tracker)(nil)

// NewTracker creates an idle tracker. It panics if recorder is nil;
// presenter and freezer are optional.
func NewTracker(recorder Recorder, presenter Presenter, freezer Freezer, logger *log.Logger) *Tracker {
	if recorder == nil {
		panic("quest: NewTracker requires a Recorder")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		recorder:  recorder,
		presenter: presenter,
		freezer:   freezer,
		logger:    logger,
	}
}

// Start begins tracking q for the given level, resetting all progress.
func (t *Tracker) Start(q *Quest, level int) {
	t.quest = q
	t.level = level
	t.required = q.KillTargets()
	t.progress = make(map[object.EnemyType]int, len(t.required))
	for kind := range t.required {
		t.progress[kind] = 0
	}
	t.elapsed = 0
	t.started = true
	t.completed = false
	t.result = Result{}
	t.logger.Debug("quest started", "quest", q.ID, "level", level, "objectives", q.Describe())
}

// Tick advances the quest clock unless the quest is complete.
func (t *Tracker) Tick(dt float64) {
	if !t.started {
		return
	}
	if !t.completed && dt > 0 {
		t.elapsed += dt
	}
	t.RefreshTime()
}

// RefreshTime re-sends the formatted clock to the presenter.
func (t *Tracker) RefreshTime() {
	if t.started && t.presenter != nil {
		t.presenter.OnTimeUpdated(FormatClock(t.elapsed))
	}
}

// OnKill counts a kill. Kills of untracked types are ignored; kills after
// completion still count but never complete the quest again.
func (t *Tracker) OnKill(kind object.EnemyType) {
	if !t.started {
		return
	}
	if _, ok := t.required[kind]; !ok {
		t.logger.Debug("kill not tracked by quest", "enemy", kind)
		return
	}
	t.progress[kind]++
	t.logger.Debug("kill", "enemy", kind, "count", t.progress[kind], "required", t.required[kind])
	t.checkComplete()
}

func (t *Tracker) checkComplete() {
	if t.completed {
		return
	}
	for kind, required := range t.required {
		if t.progress[kind] < required {
			return
		}
	}

	t.completed = true
	stars := Stars(t.elapsed, t.quest.TimeFor3Stars, t.quest.TimeFor2Stars)
	reward := Reward(t.quest.Rewards, stars)
	t.result = Result{Stars: stars, Reward: reward, Elapsed: t.elapsed}

	t.logger.Info("quest complete",
		"quest", t.quest.ID, "level", t.level,
		"time", FormatClock(t.elapsed), "stars", stars, "reward", reward)

	if err := t.recorder.RecordCompletion(t.level, stars, reward); err != nil {
		t.logger.Error("record completion", "err", err)
	}
	if err := t.recorder.CompleteQuest(t.quest.ID); err != nil {
		t.logger.Error("complete quest", "err", err)
	}
	if t.freezer != nil {
		t.freezer.Freeze()
	}
	if t.presenter != nil {
		t.presenter.OnQuestComplete(stars, reward)
	}
}

// Completed reports whether the quest has been completed.
func (t *Tracker) Completed() bool { return t.completed }

// Result returns the completion outcome; zero until completed.
func (t *Tracker) Result() Result { return t.result }

// Elapsed returns the quest clock in seconds.
func (t *Tracker) Elapsed() float64 { return t.elapsed }

// Quest returns the running quest, or nil before Start.
func (t *Tracker) Quest() *Quest { return t.quest }

// Level returns the level being played.
func (t *Tracker) Level() int { return t.level }

// Progress returns the kill count for kind.
func (t *Tracker) Progress(kind object.EnemyType) int { return t.progress[kind] }

// Status lists every kill objective in enemy type order.
func (t *Tracker) Status() []ObjectiveStatus {
	var out []ObjectiveStatus
	for _, kind := range object.EnemyTypes() {
		if req, ok := t.required[kind]; ok {
			out = append(out, ObjectiveStatus{Type: kind, Count: t.progress[kind], Required: req})
		}
	}
	return out
}
