package config

import "github.com/mj1618/formfill/internal/model"

// Document records what a Reader reported, so a read can run on a worker
// goroutine and be applied to a Store later in one step.
type Document struct {
	Packages  []string
	Items     []*model.Item
	Completed bool
	Failed    bool
	Message   string
}

// OnPackageName implements Listener.
func (d *Document) OnPackageName(name string) {
	d.Packages = append(d.Packages, name)
}

// OnConfigurationItem implements Listener.
func (d *Document) OnConfigurationItem(item *model.Item) {
	d.Items = append(d.Items, item)
}

// OnReadingCompleted implements Listener.
func (d *Document) OnReadingCompleted() {
	d.Completed = true
}

// OnReadingFailed implements Listener.
func (d *Document) OnReadingFailed(message string) {
	d.Failed = true
	d.Message = message
}
