// Package engine owns the configuration store, the event resolver and the
// dialog model, and drives them from a single goroutine. Configuration
// files are read on worker goroutines; their results are applied back on
// the engine goroutine.
package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/dialog"
	"github.com/mj1618/formfill/internal/metrics"
	"github.com/mj1618/formfill/internal/model"
	"github.com/mj1618/formfill/internal/platform"
	"github.com/mj1618/formfill/internal/prefs"
	"github.com/mj1618/formfill/internal/resolver"
	"github.com/mj1618/formfill/internal/variables"
	"github.com/rs/zerolog"
)

// DefaultSelfPackage is the package name the engine uses for itself.
const DefaultSelfPackage = "com.mj1618.formfill"

// Options configure an Engine.
type Options struct {
	// SelfPackage is never resolved and is launched by OpenApp.
	SelfPackage     string
	SystemUIPackage string

	NormalSize   dialog.Size
	ExpandedSize dialog.Size
	// OverlayOffset shifts the collapsed dialog left of the field's right edge.
	OverlayOffset int

	Opener    *config.Opener
	Variables dialog.Variables
	Metrics   *metrics.Metrics
}

func (o *Options) setDefaults(logger zerolog.Logger) {
	if o.SelfPackage == "" {
		o.SelfPackage = DefaultSelfPackage
	}
	if o.NormalSize == (dialog.Size{}) {
		o.NormalSize = dialog.Size{Width: 135, Height: 135}
	}
	if o.ExpandedSize == (dialog.Size{}) {
		o.ExpandedSize = dialog.Size{Width: 840, Height: 630}
	}
	if o.OverlayOffset == 0 {
		o.OverlayOffset = o.NormalSize.Width / 2
	}
	if o.Opener == nil {
		o.Opener = &config.Opener{}
	}
	if o.Variables == nil {
		o.Variables = variables.New(variables.Options{}, logger)
	}
}

// ErrStopped is returned by Call after the engine stopped.
var ErrStopped = errors.New("engine stopped")

// Engine is the running form-fill service.
type Engine struct {
	logger   zerolog.Logger
	opts     Options
	platform *platform.Provider
	prefs    prefs.Store
	metrics  *metrics.Metrics

	reader   *config.XMLReader
	store    *config.Store
	resolver *resolver.Resolver
	dialog   *dialog.Model

	inbox   chan func()
	stopped chan struct{}
	pending atomic.Int64

	finished  atomic.Bool
	succeeded atomic.Bool
	report    ReportFunc

	// Owned by the engine goroutine.
	runCtx      context.Context
	focused     model.Node
	showSuccess bool
	loadSeq     uint64
	loading     *config.Source
	lastMessage string
}

// New wires an engine. Nothing runs until Run is called.
func New(p *platform.Provider, st prefs.Store, opts Options, logger zerolog.Logger) *Engine {
	opts.setDefaults(logger)
	if st == nil {
		st = &prefs.MemoryStore{}
	}

	e := &Engine{
		logger:   logger.With().Str("component", "engine").Logger(),
		opts:     opts,
		platform: p,
		prefs:    st,
		metrics:  opts.Metrics,
		inbox:    make(chan func(), 64),
		stopped:  make(chan struct{}),
	}

	e.reader = config.NewXMLReader(opts.Opener, logger)
	e.store = config.NewStore(e.reader)
	e.store.SetListener(e)

	e.resolver = resolver.New(e.store, resolver.Options{
		SelfPackage:     opts.SelfPackage,
		SystemUIPackage: opts.SystemUIPackage,
	}, logger)
	e.resolver.SetListener(e)

	e.dialog = dialog.New(opts.Variables, logger)
	e.dialog.SetActions(e)
	e.dialog.SetObserver(e)
	e.dialog.SetNormalDialogDimensions(opts.NormalSize.Width, opts.NormalSize.Height)
	e.dialog.SetExpandedDialogDimensions(opts.ExpandedSize.Width, opts.ExpandedSize.Height)
	e.refreshScreen()

	saved, err := st.Load()
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to read preferences")
	}
	e.dialog.Init(saved.FastMode)
	return e
}

// SetReportFunc sets the receiver of companion reports. Call it before Run.
func (e *Engine) SetReportFunc(fn ReportFunc) {
	e.report = fn
}

// Run processes posted work until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.stopped)
	e.runCtx = ctx
	e.logger.Debug().Msg("Engine started")
	for {
		select {
		case <-ctx.Done():
			e.logger.Debug().Msg("Engine stopped")
			return ctx.Err()
		case fn := <-e.inbox:
			fn()
			e.pending.Add(-1)
		}
	}
}

// Post queues fn to run on the engine goroutine.
func (e *Engine) Post(fn func()) {
	e.post(fn)
}

func (e *Engine) post(fn func()) bool {
	e.pending.Add(1)
	select {
	case e.inbox <- fn:
		return true
	case <-e.stopped:
		e.pending.Add(-1)
		return false
	}
}

// Call runs fn on the engine goroutine and waits for it.
func (e *Engine) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	e.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return ErrStopped
	}
}

// WaitIdle polls until no posted work and no configuration read is
// outstanding.
func (e *Engine) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for e.pending.Load() != 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stopped:
			return ErrStopped
		case <-ticker.C:
		}
	}
	return nil
}

// ConfigurationFinished reports whether the last requested load finished,
// successfully or not.
func (e *Engine) ConfigurationFinished() bool {
	return e.finished.Load()
}

// LoadSucceeded reports whether the last finished load succeeded.
func (e *Engine) LoadSucceeded() bool {
	return e.succeeded.Load()
}

// NumberOfProfiles returns the profile count of the loaded configuration.
func (e *Engine) NumberOfProfiles() int {
	return e.store.NumberOfProfiles()
}

// Store returns the configuration store. It may be read from any goroutine.
func (e *Engine) Store() *config.Store {
	return e.store
}

// Variables returns the variable provider the dialog uses.
func (e *Engine) Variables() dialog.Variables {
	return e.opts.Variables
}

func (e *Engine) refreshScreen() {
	if e.platform == nil || e.platform.Screen == nil {
		return
	}
	w, h, err := e.platform.Screen.ScreenSize()
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to read screen size")
		return
	}
	e.dialog.SetStatusBarHeight(e.platform.Screen.StatusBarHeight())
	e.dialog.SetScreenDimensions(w, h)
}
