package engine

import (
	"path/filepath"

	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/prefs"
)

// Toast texts.
const (
	MessageLoaded     = "Configuration loaded successfully"
	MessageLoadFailed = "Error loading configuration file: "
)

// LoadConfiguration clears the store and reads src on a worker goroutine.
// A load requested while another one is in flight supersedes it: the older
// result is dropped when it arrives.
func (e *Engine) LoadConfiguration(src config.Source, showSuccess bool) {
	e.Post(func() { e.startLoad(src, showSuccess) })
}

// ReloadLastSource loads the source remembered in preferences and returns
// it, or nil when no source was remembered.
func (e *Engine) ReloadLastSource() (*config.Source, error) {
	p, err := e.prefs.Load()
	if err != nil {
		return nil, err
	}
	if p.LastSource == nil {
		return nil, nil
	}
	e.logger.Info().Str("name", p.LastSourceName).Msg("Reloading last configuration")
	e.LoadConfiguration(*p.LastSource, false)
	return p.LastSource, nil
}

func (e *Engine) startLoad(src config.Source, showSuccess bool) {
	e.finished.Store(false)
	e.showSuccess = showSuccess
	e.store.BeginLoad()
	if err := e.dialog.SetVariablePattern(e.store.VariablePattern()); err != nil {
		e.logger.Warn().Err(err).Msg("Variable substitution disabled")
	}

	e.loadSeq++
	seq := e.loadSeq
	e.loading = &src
	e.logger.Info().Str("source", src.String()).Msg("Loading configuration")

	ctx := e.runCtx
	e.pending.Add(1)
	go func() {
		doc := &config.Document{}
		// Read reports failures through doc as well.
		_ = e.reader.Read(ctx, src, doc)
		accepted := e.post(func() {
			defer e.pending.Add(-1)
			if seq != e.loadSeq {
				e.logger.Debug().Str("source", src.String()).Msg("Dropping superseded configuration")
				return
			}
			e.store.Apply(doc)
		})
		if !accepted {
			e.pending.Add(-1)
		}
	}()
}

// OnConfigurationCompleted implements config.StoreListener.
func (e *Engine) OnConfigurationCompleted(packages, profiles []string) {
	e.dialog.SetProfiles(profiles)
	e.send(Report{Kind: ReportPackages, Packages: packages})
	if e.loading != nil {
		e.rememberSource(*e.loading)
	}
	e.finish(true)
	e.metrics.Load("success", len(profiles))
	e.logger.Info().
		Int("packages", len(packages)).
		Int("profiles", len(profiles)).
		Msg("Configuration loaded")

	if e.showSuccess {
		e.toast(MessageLoaded)
	}
}

// rememberSource stores src so the next session can load it again. It runs
// before the load is reported finished.
func (e *Engine) rememberSource(src config.Source) {
	err := prefs.Update(e.prefs, func(p *prefs.Prefs) {
		p.LastSource = &src
		p.LastSourceName = filepath.Base(src.Path)
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to remember configuration source")
	}
}

// OnConfigurationFailed implements config.StoreListener.
func (e *Engine) OnConfigurationFailed(message string) {
	e.dialog.SetProfiles(nil)
	e.logger.Error().Str("error", message).Msg("Configuration failed")
	e.toast(MessageLoadFailed + message)
	e.send(Report{Kind: ReportPackages})
	e.finish(false)
	e.metrics.Load("failure", 0)
}

// OnResendConfiguration implements config.StoreListener.
func (e *Engine) OnResendConfiguration(packages []string) {
	e.send(Report{Kind: ReportPackages, Packages: packages})
}

func (e *Engine) finish(success bool) {
	e.loading = nil
	e.succeeded.Store(success)
	e.finished.Store(true)
	e.send(Report{Kind: ReportConfigurationFinished, Success: success})
}

func (e *Engine) toast(msg string) {
	e.lastMessage = msg
	if e.platform == nil || e.platform.Notifier == nil {
		return
	}
	if err := e.platform.Notifier.Notify(msg); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to show notification")
	}
}
