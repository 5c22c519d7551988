// Package observer implements fine-grained change detection over object
// graphs. Reading a reactive property while a Watcher evaluates subscribes
// that Watcher to the property's Dep; writing the property notifies the
// subscribers, which are batched by the scheduler into one id-ordered flush
// per tick.
//
// A System is single threaded. Every Object, Array, Watcher and Scope created
// through it must be touched from one goroutine at a time, either the
// caller's (driving flushes with Tick) or a Loop's.
package observer

import (
	"time"

	"go.uber.org/zap"
)

// DefaultMaxUpdateCount is the number of times one watcher may re-queue
// itself within a single flush before it is reported as an infinite loop.
const DefaultMaxUpdateCount = 100

// FlushObserver receives scheduler events. Used for metrics.
type FlushObserver interface {
	FlushStarted(queued int)
	WatcherRan(w *Watcher)
	LoopDetected(w *Watcher)
	FlushFinished(ran int, took time.Duration)
}

// Config configures a System.
type Config struct {
	// Synchronous flushes the scheduler queue inline instead of on the next
	// tick and notifies subscribers in ascending watcher id order. It exists
	// for deterministic tests.
	Synchronous bool

	// Silent suppresses warnings that have no WarnHandler.
	Silent bool

	// Performance enables init/render/patch timing in the component layer.
	Performance bool

	Logger *zap.Logger

	WarnHandler  func(msg string, scope *Scope)
	ErrorHandler func(err error, scope *Scope, info string)

	// Defer is called once per tick with the function that drains pending
	// microtasks. When nil the owner must call Tick.
	Defer func(drain func())

	FlushObserver FlushObserver

	MaxUpdateCount int
}

type System struct {
	cfg    Config
	logger *zap.Logger

	target      *Watcher
	targetStack []*Watcher

	lastDepID     uint64
	lastWatcherID uint64
	lastScopeID   uint64

	observing bool

	root  *Scope
	sched scheduler
	ticks tickQueue
}

func NewSystem(cfg Config) *System {
	if cfg.MaxUpdateCount <= 0 {
		cfg.MaxUpdateCount = DefaultMaxUpdateCount
	}
	s := &System{
		cfg:       cfg,
		logger:    cfg.Logger,
		observing: true,
		sched:     newScheduler(),
	}
	if s.logger == nil {
		s.logger = Logger()
	}
	s.root = s.NewScope("Root", nil)
	return s
}

func (s *System) Config() Config {
	return s.cfg
}

// Root returns the scope that owns watchers created directly on the System.
func (s *System) Root() *Scope {
	return s.root
}

// Target returns the watcher currently collecting dependencies, if any.
func (s *System) Target() *Watcher {
	return s.target
}

func (s *System) pushTarget(w *Watcher) {
	s.targetStack = append(s.targetStack, w)
	s.target = w
}

func (s *System) popTarget() {
	lastIdx := len(s.targetStack) - 1
	if lastIdx < 0 {
		panic("observer: popTarget on empty tracking stack")
	}
	s.targetStack[lastIdx] = nil
	s.targetStack = s.targetStack[:lastIdx]
	if lastIdx == 0 {
		s.target = nil
		return
	}
	s.target = s.targetStack[lastIdx-1]
}

// PauseTracking stops dependency collection until the matching
// ResumeTracking. Calls nest.
func (s *System) PauseTracking() {
	s.pushTarget(nil)
}

func (s *System) ResumeTracking() {
	s.popTarget()
}

// Untracked runs fn without collecting dependencies.
func (s *System) Untracked(fn func()) {
	s.PauseTracking()
	defer s.ResumeTracking()
	fn()
}

// ToggleObserving turns creation of new Observers on or off. Existing
// Observers are unaffected.
func (s *System) ToggleObserving(on bool) {
	s.observing = on
}

func (s *System) Observing() bool {
	return s.observing
}

func (s *System) nextDepID() uint64 {
	s.lastDepID++
	return s.lastDepID
}

func (s *System) nextWatcherID() uint64 {
	s.lastWatcherID++
	return s.lastWatcherID
}

func (s *System) maxUpdateCount() int {
	return s.cfg.MaxUpdateCount
}
