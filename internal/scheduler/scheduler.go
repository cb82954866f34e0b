package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qforge/qforge/internal/models"
	"github.com/qforge/qforge/internal/seeder"
	"github.com/qforge/qforge/internal/utils"
	"github.com/qforge/qforge/internal/writer"
)

// State describes where the scheduler is in its pass lifecycle.
type State int

const (
	StateIdle State = iota
	StatePassScheduled
	StatePassRunning
)

// EventKind mirrors the notification kinds of the host's file-watch
// event feed. Delivery may be duplicated or out of order; every pass
// recomputes from disk, so neither breaks correctness.
type EventKind int

const (
	EventAdd EventKind = iota
	EventChange
	EventRemove
	EventAddDir
	EventRemoveDir
)

// PassRunner executes one full regeneration pass.
type PassRunner interface {
	RunPass(ctx context.Context) error
}

// Scheduler coalesces change notifications into serialized regeneration
// passes: at most one pass pending and one in flight, never two running
// concurrently, and a failing pass never blocks the next one. Each
// scanned root owns its scheduler; there is no process-wide state.
type Scheduler struct {
	layout   models.Layout
	runner   PassRunner
	seeder   *seeder.Seeder
	writer   *writer.Writer
	diag     *utils.DiagnosticSystem
	debounce time.Duration

	mu           sync.Mutex
	pending      bool
	running      bool
	reloadWanted bool
	reloadFns    []func()

	runMu sync.Mutex // serializes pass execution
	wg    sync.WaitGroup
}

// New creates a scheduler for one scanned root.
func New(layout models.Layout, runner PassRunner, seed *seeder.Seeder, wr *writer.Writer, diag *utils.DiagnosticSystem, debounce time.Duration) *Scheduler {
	return &Scheduler{
		layout:   layout,
		runner:   runner,
		seeder:   seed,
		writer:   wr,
		diag:     diag,
		debounce: debounce,
	}
}

// OnReload registers a callback invoked after a change-triggered pass
// completes successfully. This is the one-shot full-reload signal to
// the host environment.
func (s *Scheduler) OnReload(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadFns = append(s.reloadFns, fn)
}

// State returns the scheduler's current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.running:
		return StatePassRunning
	case s.pending:
		return StatePassScheduled
	default:
		return StateIdle
	}
}

// Notify feeds one raw change notification into the scheduler.
// Notifications outside the scanned root or for generated artifacts are
// dropped: those are side effects of a prior pass, not user intent.
func (s *Scheduler) Notify(kind EventKind, path string) {
	path = filepath.Clean(path)
	if !s.layout.Contains(path) || s.layout.IsGeneratedArtifact(path) {
		return
	}

	switch kind {
	case EventAddDir:
		// Skeleton creation is synchronous and separate from the
		// coalesced pass, so a fresh namespace is usable immediately.
		if namespace, ok := s.namespaceFor(path); ok {
			if err := s.writer.EnsureNamespaceSkeleton(namespace); err != nil {
				s.diag.Error("failed to create skeleton for namespace %q: %v", namespace, err)
			} else {
				s.diag.Verbose("created skeleton for namespace %q", namespace)
			}
		}
	case EventAdd:
		// Seed before scheduling so the new file participates in the
		// very next pass.
		seeded, err := s.seeder.MaybeSeed(path)
		if err != nil {
			s.diag.Error("%v", err)
		} else if seeded {
			s.diag.Progress("seeded %s", path)
		}
	}

	s.RequestPass()
}

// RequestPass schedules a change-triggered regeneration pass, coalescing
// with an already-pending one.
func (s *Scheduler) RequestPass() {
	s.requestPass(true)
}

// RequestInitialPass schedules a pass that does not signal reload
// subscribers, used for the startup generation.
func (s *Scheduler) RequestInitialPass() {
	s.requestPass(false)
}

func (s *Scheduler) requestPass(fromChange bool) {
	s.mu.Lock()
	if fromChange {
		s.reloadWanted = true
	}
	if s.pending {
		// Coalesced: the pending pass recomputes the whole snapshot
		// from disk, so it will observe this change too.
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.debounce > 0 {
			time.Sleep(s.debounce)
		}

		s.runMu.Lock()
		defer s.runMu.Unlock()

		s.mu.Lock()
		s.pending = false
		s.running = true
		signalReload := s.reloadWanted
		s.reloadWanted = false
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		if s.executePass() && signalReload {
			s.signalReload()
		}
	}()
}

// executePass runs one pass at the chain boundary: failures are logged
// with remediation guidance and never propagate, so the chain always
// returns to idle and later passes keep running.
func (s *Scheduler) executePass() (ok bool) {
	passID := strings.Split(uuid.NewString(), "-")[0]
	started := time.Now()
	s.diag.Verbose("pass %s starting", passID)

	defer func() {
		if r := recover(); r != nil {
			s.diag.Error("pass %s panicked: %v", passID, r)
			ok = false
		}
	}()

	if err := s.runner.RunPass(context.Background()); err != nil {
		s.diag.Error("pass %s failed: %v", passID, err)
		s.diag.Warn("previously generated artifacts were left in place; fix the reported problem and save again")
		return false
	}

	s.diag.Verbose("pass %s completed in %s", passID, time.Since(started).Round(time.Millisecond))
	return true
}

// signalReload invokes the registered reload callbacks.
func (s *Scheduler) signalReload() {
	s.mu.Lock()
	fns := make([]func(), len(s.reloadFns))
	copy(fns, s.reloadFns)
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Wait blocks until every scheduled pass has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// namespaceFor maps a directory path to a namespace name when it sits
// exactly one segment under the root.
func (s *Scheduler) namespaceFor(path string) (string, bool) {
	rel, err := filepath.Rel(s.layout.Root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	if len(segments) != 1 || !models.IsNamespaceDir(segments[0]) {
		return "", false
	}
	return segments[0], true
}

// String renders a state for logs and tests.
func (st State) String() string {
	switch st {
	case StatePassScheduled:
		return "pass-scheduled"
	case StatePassRunning:
		return "pass-running"
	default:
		return "idle"
	}
}
