package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/store"
)

// DefaultInterval is the autosave period used when Run gets a non-positive one.
const DefaultInterval = 30 * time.Second

// AutoSaver writes the model of a store into a BlobStore.
type AutoSaver struct {
	model *store.Store
	blobs BlobStore
	log   *slog.Logger

	// OnSave, when set, is called after every save attempt that reached the
	// blob store (err is nil on success).
	OnSave func(err error)

	saved atomic.Uint64 // revision of the last successful save
}

// NewAutoSaver returns a saver for model. A nil logger means slog.Default().
func NewAutoSaver(model *store.Store, blobs BlobStore, log *slog.Logger) *AutoSaver {
	if log == nil {
		log = slog.Default()
	}
	return &AutoSaver{model: model, blobs: blobs, log: log}
}

// SaveNow serialises the model and stores it. A model without any system,
// container, component, person or external system is not saved, so an empty
// canvas never overwrites earlier work. It reports whether a save happened.
func (a *AutoSaver) SaveNow(ctx context.Context) (bool, error) {
	rev := a.model.Revision()
	snap := a.model.ExportModel()
	if !snap.HasElements() {
		return false, nil
	}
	data, err := codec.SerializeString(snap)
	if err != nil {
		return false, fmt.Errorf("failed to serialise model: %w", err)
	}
	err = a.blobs.Set(ctx, data)
	if a.OnSave != nil {
		a.OnSave(err)
	}
	if err != nil {
		a.log.Error("autosave failed", "error", err)
		return false, err
	}
	a.saved.Store(rev)
	a.log.Debug("model autosaved", "revision", rev, "bytes", len(data))
	return true, nil
}

// Restore loads the saved model into the store. It returns false when there is
// nothing saved. A blob that does not parse leaves the store untouched.
func (a *AutoSaver) Restore(ctx context.Context) (bool, error) {
	data, ok, err := a.blobs.Get(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	snap, err := codec.DeserializeString(data)
	if err != nil {
		return false, fmt.Errorf("failed to restore autosaved model: %w", err)
	}
	a.model.ImportModel(snap)
	a.saved.Store(a.model.Revision())
	a.log.Info("autosaved model restored", "name", snap.Metadata.Name, "entities", snap.Len())
	return true, nil
}

// Clear removes the saved model.
func (a *AutoSaver) Clear(ctx context.Context) error {
	return a.blobs.Remove(ctx)
}

// Run saves the model every interval while it changes, until ctx is done.
// A final save is made on the way out.
func (a *AutoSaver) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// ctx is already cancelled; give the final save its own deadline.
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_, err := a.SaveNow(final)
			return err
		case <-ticker.C:
			if a.model.Revision() == a.saved.Load() {
				continue
			}
			// Errors are logged by SaveNow; keep ticking.
			_, _ = a.SaveNow(ctx)
		}
	}
}
