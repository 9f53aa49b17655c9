package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/containerd/errdefs"
	"github.com/jonboulle/clockwork"

	"github.com/bassista/quillpad/internal/logger"
	"github.com/bassista/quillpad/internal/prefs"
	"github.com/bassista/quillpad/internal/storage"
)

// Coordinator owns the session state and the mutual-exclusion discipline
// around load, save and autosave. Manual operations block on the save gate;
// autosave abandons immediately when the gate is held, because a concurrent
// manual save or load makes it redundant.
//
// Every operation returns the post-transition state snapshot, which is what
// the UI layer renders.
type Coordinator struct {
	files       storage.Port
	prefs       prefs.Store
	store       *Store
	sched       *Scheduler
	defaultName string

	// gate serializes load, save and autosave. Lock for manual
	// operations, TryLock for autosave.
	gate sync.Mutex

	ctxMu   sync.Mutex
	baseCtx context.Context

	exitOnce sync.Once
	exitCh   chan struct{}
}

func NewCoordinator(files storage.Port, prefStore prefs.Store, clock clockwork.Clock, quiet time.Duration, defaultName string) *Coordinator {
	if defaultName == "" {
		defaultName = "Untitled.md"
	}
	c := &Coordinator{
		files:       files,
		prefs:       prefStore,
		store:       NewStore(NewState(defaultName)),
		defaultName: defaultName,
		baseCtx:     context.Background(),
		exitCh:      make(chan struct{}),
	}
	c.sched = NewScheduler(clock, quiet, c.autosaveFromTimer)
	return c
}

// Start wires the base context for timer-driven autosaves and subscribes to
// preference changes: autosave turned on externally while the document is
// dirty re-arms the scheduler. Call it once.
func (c *Coordinator) Start(ctx context.Context) {
	c.ctxMu.Lock()
	c.baseCtx = ctx
	c.ctxMu.Unlock()

	c.prefs.Subscribe(func(p prefs.Preferences) {
		if p.AutosaveEnabled && c.Snapshot().Dirty {
			logger.WithComponent("coordinator").Debug("autosave enabled externally with dirty document, re-arming scheduler")
			c.sched.NotifyEdit()
		}
	})
}

// Stop cancels any pending autosave trigger.
func (c *Coordinator) Stop() {
	c.sched.Stop()
}

// Snapshot returns the current session state.
func (c *Coordinator) Snapshot() State {
	return c.store.Snapshot()
}

// ExitRequested is closed once the user confirms exit.
func (c *Coordinator) ExitRequested() <-chan struct{} {
	return c.exitCh
}

// SetText replaces the live buffer, recomputes the dirty flag and forwards
// the edit to the autosave scheduler.
func (c *Coordinator) SetText(text string) State {
	st := c.store.Update(func(s State) State {
		s.Text = text
		s.Dirty = text != s.BaselineText
		return s
	})
	c.sched.NotifyEdit()
	return st
}

// Load opens a document and replaces the session with it. The effective
// locator is the argument if non-empty, else the last-used locator from
// preferences; with neither, Load is a no-op. Content that does not look
// like text is not loaded silently: an open-non-text prompt holds it until
// the user decides. Failures leave the document fields untouched and raise
// an error notice.
func (c *Coordinator) Load(ctx context.Context, locator string) State {
	c.gate.Lock()
	defer c.gate.Unlock()

	eff := locator
	if eff == "" {
		eff = c.prefs.Snapshot().LastUsedLocator
	}
	if eff == "" {
		logger.WithComponent("coordinator").Debug("load skipped: no locator and no last-used")
		return c.store.Snapshot()
	}

	doc, err := c.files.Open(ctx, eff)
	if err != nil {
		logger.WithComponent("coordinator").Warnf("load failed: %v", err)
		return c.store.Update(func(s State) State {
			s.Prompt = errorNotice(openFailureMessage(eff, err))
			return s
		})
	}

	if !isTextContent(doc.MIMEType) {
		logger.WithComponent("coordinator").Infof("non-text content (%s) for %s, asking before load", doc.MIMEType, eff)
		prompt := &Prompt{
			Kind:    PromptOpenNonText,
			Message: fmt.Sprintf("%s does not look like a text file. Open it anyway?", doc.DisplayName),
			Choices: []Choice{ChoiceAccept, ChoiceCancel},
			Load: &PendingLoad{
				Locator:     eff,
				DisplayName: doc.DisplayName,
				Content:     doc.Content,
				MIMEType:    doc.MIMEType,
			},
		}
		return c.store.Update(func(s State) State {
			s.Prompt = prompt
			return s
		})
	}

	return c.applyLoadedDocument(eff, doc)
}

// applyLoadedDocument replaces the session with loaded content and records
// the locator as last-used. Caller holds the gate.
func (c *Coordinator) applyLoadedDocument(locator string, doc storage.Document) State {
	st := c.store.Update(func(s State) State {
		s.DisplayName = doc.DisplayName
		s.Locator = locator
		s.Text = doc.Content
		s.BaselineText = doc.Content
		s.Dirty = false
		s.PendingSave = nil
		s.Prompt = infoNotice(fmt.Sprintf("Opened %s", doc.DisplayName))
		return s
	})
	if err := c.prefs.SetLastUsedLocator(locator); err != nil {
		logger.WithComponent("coordinator").Warnf("could not record last-used locator: %v", err)
	}
	logger.WithComponent("coordinator").Infof("loaded %s", locator)
	return st
}

// Save persists the live buffer. The effective locator is the argument if
// non-empty, else the session's current locator. With neither, an
// interactive save defers via PendingSave (the UI asks for a destination);
// a non-interactive save fails silently. The second return value reports
// whether content was persisted.
func (c *Coordinator) Save(ctx context.Context, locator string, interactive bool) (State, bool) {
	c.gate.Lock()
	defer c.gate.Unlock()
	return c.saveLocked(ctx, locator, interactive, "")
}

// saveLocked runs a save while the caller holds the gate. chainedNewDoc
// carries the name of a new-document reset to run after a deferred save
// eventually succeeds.
func (c *Coordinator) saveLocked(ctx context.Context, locator string, interactive bool, chainedNewDoc string) (State, bool) {
	st := c.store.Snapshot()

	eff := locator
	if eff == "" {
		eff = st.Locator
	}
	if eff == "" {
		if !interactive {
			return st, false
		}
		logger.WithComponent("coordinator").Debug("save deferred: no locator yet")
		return c.store.Update(func(s State) State {
			s.PendingSave = &PendingSave{NextDocumentName: chainedNewDoc}
			return s
		}), false
	}

	name, err := c.files.Save(ctx, eff, st.Text)
	if err != nil {
		logger.WithComponent("coordinator").Warnf("save failed: %v", err)
		if !interactive {
			return st, false
		}
		// A failed save must not mark the document clean.
		return c.store.Update(func(s State) State {
			s.Prompt = errorNotice(saveFailureMessage(eff, err))
			return s
		}), false
	}

	newSt := c.store.Update(func(s State) State {
		s.DisplayName = name
		s.Locator = eff
		// Baseline is the text that actually went to storage; edits that
		// raced the write keep the document dirty.
		s.BaselineText = st.Text
		s.Dirty = s.Text != s.BaselineText
		s.PendingSave = nil
		if interactive {
			s.Prompt = infoNotice(fmt.Sprintf("Saved %s", name))
		}
		return s
	})
	if err := c.prefs.SetLastUsedLocator(eff); err != nil {
		logger.WithComponent("coordinator").Warnf("could not record last-used locator: %v", err)
	}
	logger.WithComponent("coordinator").Infof("saved %s", eff)
	return newSt, true
}

// Autosave is the debounced trigger target. It never waits on the gate: if
// a manual operation holds it, the autosave is abandoned. When the gated
// save cannot persist (no locator, or storage failure), the buffer is
// written to the default local directory directly through the storage port;
// the gate is already held, so the bypass excludes no other writer. The
// fallback copy is recoverable but not a user-confirmed target, so the
// dirty flag stays set.
func (c *Coordinator) Autosave(ctx context.Context) (State, bool) {
	if !c.gate.TryLock() {
		logger.WithComponent("coordinator").Debug("autosave abandoned: gate held")
		return c.store.Snapshot(), false
	}
	defer c.gate.Unlock()

	if !c.prefs.Snapshot().AutosaveEnabled {
		return c.store.Snapshot(), false
	}
	st := c.store.Snapshot()
	if !st.Dirty {
		return st, false
	}

	if newSt, ok := c.saveLocked(ctx, "", false, ""); ok {
		return newSt, true
	}

	fallback := filepath.Join(c.files.DefaultLocalDir(), st.DisplayName)
	if _, err := c.files.Save(ctx, fallback, st.Text); err != nil {
		logger.WithComponent("coordinator").Warnf("autosave fallback failed: %v", err)
		return c.store.Snapshot(), false
	}
	// Recording the fallback as last-used lets the next process start
	// recover the buffer.
	if err := c.prefs.SetLastUsedLocator(fallback); err != nil {
		logger.WithComponent("coordinator").Warnf("could not record fallback locator: %v", err)
	}
	logger.WithComponent("coordinator").Infof("autosaved local copy %s", fallback)
	return c.store.Snapshot(), true
}

// NewDocument resets the session to a fresh empty document. A dirty session
// routes through a save-confirmation prompt first unless force is set.
func (c *Coordinator) NewDocument(name string, force bool) State {
	if name == "" {
		name = c.defaultName
	}

	st := c.store.Snapshot()
	if !force && st.Dirty {
		prompt := &Prompt{
			Kind:             PromptSaveConfirm,
			Message:          fmt.Sprintf("%s has unsaved changes. Save them before starting %s?", st.DisplayName, name),
			Choices:          []Choice{ChoiceSave, ChoiceDiscard, ChoiceCancel},
			NextDocumentName: name,
		}
		return c.store.Update(func(s State) State {
			s.Prompt = prompt
			return s
		})
	}

	c.sched.Stop()
	newSt := c.store.Update(func(State) State {
		return NewState(name)
	})
	if err := c.prefs.ClearLastUsedLocator(); err != nil {
		logger.WithComponent("coordinator").Warnf("could not clear last-used locator: %v", err)
	}
	logger.WithComponent("coordinator").Infof("new document %s", name)
	return newSt
}

// ChooseSaveTarget resolves a pending save (or acts as save-as): it re-runs
// the interactive save against the chosen locator, then any chained
// new-document reset.
func (c *Coordinator) ChooseSaveTarget(ctx context.Context, locator string) State {
	c.gate.Lock()
	chained := ""
	if pending := c.store.Snapshot().PendingSave; pending != nil {
		chained = pending.NextDocumentName
	}
	newSt, ok := c.saveLocked(ctx, locator, true, chained)
	c.gate.Unlock()

	if ok && chained != "" {
		return c.NewDocument(chained, true)
	}
	return newSt
}

// RequestExit shows the exit-confirmation toast; a second request while it
// is showing confirms the exit.
func (c *Coordinator) RequestExit() State {
	st := c.store.Snapshot()
	if st.Prompt != nil && st.Prompt.Kind == PromptExitConfirm {
		return c.confirmExit()
	}
	prompt := &Prompt{
		Kind:    PromptExitConfirm,
		Message: "Exit? Unsaved changes may be lost. Confirm to exit.",
		Choices: []Choice{ChoiceExit, ChoiceCancel},
	}
	return c.store.Update(func(s State) State {
		s.Prompt = prompt
		return s
	})
}

// ResolvePrompt applies a user choice to the active prompt. Unknown or
// disallowed choices leave the state unchanged.
func (c *Coordinator) ResolvePrompt(ctx context.Context, choice Choice) State {
	st := c.store.Snapshot()
	p := st.Prompt
	if p == nil {
		return st
	}
	if !p.allows(choice) {
		logger.WithComponent("coordinator").Warnf("choice %q not offered by %s prompt", choice, p.Kind)
		return st
	}

	switch p.Kind {
	case PromptNotice:
		return c.clearPrompt()

	case PromptExitConfirm:
		if choice == ChoiceExit {
			return c.confirmExit()
		}
		return c.clearPrompt()

	case PromptOpenNonText:
		if choice == ChoiceAccept {
			return c.acceptPendingLoad(p.Load)
		}
		return c.clearPrompt()

	case PromptSaveConfirm:
		switch choice {
		case ChoiceDiscard:
			c.clearPrompt()
			return c.NewDocument(p.NextDocumentName, true)
		case ChoiceSave:
			c.clearPrompt()
			c.gate.Lock()
			newSt, ok := c.saveLocked(ctx, "", true, p.NextDocumentName)
			c.gate.Unlock()
			if ok {
				return c.NewDocument(p.NextDocumentName, true)
			}
			// Either PendingSave is now set (no locator) or an error
			// notice is showing; the reset stays chained behind it.
			return newSt
		default:
			return c.clearPrompt()
		}
	}

	return st
}

func (c *Coordinator) clearPrompt() State {
	return c.store.Update(func(s State) State {
		s.Prompt = nil
		return s
	})
}

func (c *Coordinator) confirmExit() State {
	st := c.store.Update(func(s State) State {
		s.Prompt = nil
		s.ExitRequested = true
		return s
	})
	c.exitOnce.Do(func() { close(c.exitCh) })
	logger.WithComponent("coordinator").Info("exit confirmed")
	return st
}

// acceptPendingLoad completes an open-non-text load the user just approved.
func (c *Coordinator) acceptPendingLoad(load *PendingLoad) State {
	if load == nil {
		return c.clearPrompt()
	}
	c.gate.Lock()
	defer c.gate.Unlock()
	return c.applyLoadedDocument(load.Locator, storage.Document{
		DisplayName: load.DisplayName,
		Content:     load.Content,
		MIMEType:    load.MIMEType,
	})
}

func (c *Coordinator) autosaveFromTimer() {
	c.ctxMu.Lock()
	ctx := c.baseCtx
	c.ctxMu.Unlock()
	c.Autosave(ctx)
}

// isTextContent reports whether a MIME hint is safe to load without asking.
// An absent hint counts as text.
func isTextContent(hint string) bool {
	switch {
	case hint == "":
		return true
	case strings.HasPrefix(hint, "text/"):
		return true
	case strings.Contains(hint, "json"), strings.Contains(hint, "xml"), strings.Contains(hint, "yaml"):
		return true
	}
	return false
}

func openFailureMessage(locator string, err error) string {
	switch {
	case errdefs.IsNotFound(err):
		return fmt.Sprintf("Could not find %s.", locator)
	case errdefs.IsPermissionDenied(err):
		return fmt.Sprintf("Not allowed to read %s.", locator)
	default:
		return fmt.Sprintf("Could not open %s.", locator)
	}
}

func saveFailureMessage(locator string, err error) string {
	switch {
	case errdefs.IsNotFound(err):
		return fmt.Sprintf("The location of %s no longer exists.", locator)
	case errdefs.IsPermissionDenied(err):
		return fmt.Sprintf("Not allowed to write %s.", locator)
	default:
		return fmt.Sprintf("Could not save %s.", locator)
	}
}
