package formats

import (
	"context"
	"sync"
	"time"

	"github.com/lecternhq/lectern/pkg/models"
	"github.com/lecternhq/lectern/pkg/settings"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Service keeps a Registry in sync with the settings store and writes format
// changes back to it.
type Service struct {
	log      logger.Logger
	registry *Registry
	store    *settings.Store

	// writeMu serializes mutations so that the registry and the stored list
	// are changed in the same order.
	writeMu     sync.Mutex
	pending     chan struct{}
	retryDelay  time.Duration
	unsubscribe func()
}

func NewService(store *settings.Store, log logger.Logger) *Service {
	svc := &Service{
		log:        log,
		registry:   NewRegistry(log),
		store:      store,
		pending:    make(chan struct{}, 1),
		retryDelay: 5 * time.Second,
	}
	svc.unsubscribe = store.Subscribe(svc.observe)
	return svc
}

func (svc *Service) Registry() *Registry {
	return svc.registry
}

// observe runs inside the store's publish cycle, so it must not write to the
// store itself. Persisting flagged defaults is handed to Run.
func (svc *Service) observe(snap settings.Snapshot) {
	before := svc.registry.State()
	svc.registry.Observe(snap)
	if before == StateUninitialized && svc.registry.State() == StateInitialized {
		svc.log.Info("course formats initialized", logger.Data{"count": len(svc.registry.Formats())})
	}

	select {
	case svc.pending <- struct{}{}:
	default:
	}
}

// Run persists flagged defaults until ctx is done. A failed write is retried
// after retryDelay.
func (svc *Service) Run(ctx context.Context) {
	var retry <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-svc.pending:
		case <-retry:
		}
		retry = nil
		if err := svc.PersistPendingDefaults(ctx); err != nil {
			svc.log.Err(err).Error("persist default course formats error")
			retry = time.After(svc.retryDelay)
		}
	}
}

// PersistPendingDefaults writes the default formats to the settings store if
// the registry flagged them. It is a no-op otherwise.
func (svc *Service) PersistPendingDefaults(ctx context.Context) error {
	svc.writeMu.Lock()
	defer svc.writeMu.Unlock()

	list, ok := svc.registry.TakePendingDefaults()
	if !ok {
		return nil
	}
	if err := svc.save(ctx, list); err != nil {
		svc.registry.requeueDefaults()
		return errors.WithStack(err)
	}
	svc.log.Info("persisted default course formats", logger.Data{"count": len(list)})
	return nil
}

// Add registers a new format and persists the updated list.
func (svc *Service) Add(ctx context.Context, label string) (Format, error) {
	svc.writeMu.Lock()
	defer svc.writeMu.Unlock()

	f, list, err := svc.registry.Add(label)
	if err != nil {
		return Format{}, err
	}
	if err := svc.save(ctx, list); err != nil {
		_, _ = svc.registry.Remove(f.Value)
		return Format{}, errors.WithStack(err)
	}
	return f, nil
}

// Remove deletes a format by slug and persists the updated list.
func (svc *Service) Remove(ctx context.Context, value string) error {
	svc.writeMu.Lock()
	defer svc.writeMu.Unlock()

	previous := svc.registry.Formats()
	list, err := svc.registry.Remove(value)
	if err != nil {
		return err
	}
	if err := svc.save(ctx, list); err != nil {
		svc.registry.restore(previous)
		return errors.WithStack(err)
	}
	return nil
}

// Close stops observing the settings store.
func (svc *Service) Close() {
	if svc.unsubscribe != nil {
		svc.unsubscribe()
	}
}

func (svc *Service) save(ctx context.Context, list []Format) error {
	encoded, err := encodeFormats(list)
	if err != nil {
		return err
	}
	return svc.store.Update(ctx, map[string]string{models.SettingCourseFormats: encoded})
}
