package formats

import (
	"fmt"
	"sync"

	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/lecternhq/lectern/pkg/settings"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

type State int

const (
	StateUninitialized State = iota
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Registry holds the list of selectable course formats. It starts
// uninitialized and moves to initialized exactly once, the first time a
// settings snapshot lets it decide which formats to use. It never goes back.
type Registry struct {
	log logger.Logger

	mu              sync.RWMutex
	state           State
	formats         []Format
	persistDefaults bool
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{log: log}
}

// State returns the current state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Formats returns a copy of the current list.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Format{}, r.formats...)
}

// Has reports whether value is one of the registered format slugs.
func (r *Registry) Has(value string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.formats {
		if f.Value == value {
			return true
		}
	}
	return false
}

// Observe evaluates a settings snapshot. While uninitialized, stored formats
// are adopted if present; if settings have loaded but carry no formats, the
// defaults are adopted and flagged for persistence. Snapshots that arrive
// while settings are still empty leave the registry uninitialized. Any
// failure while deciding falls back to the defaults.
func (r *Registry) Observe(snap settings.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateInitialized {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("format initialization failed, using defaults", logger.Data{"panic": fmt.Sprint(rec)})
			r.adoptDefaultsLocked(false)
		}
	}()

	stored, err := decodeFormats(snap.Settings[models.SettingCourseFormats])
	if err != nil {
		r.log.Warn("stored course formats are invalid, using defaults", logger.Data{"error": err.Error()})
		r.adoptDefaultsLocked(false)
		return
	}

	if len(stored) > 0 {
		r.formats = stored
		r.state = StateInitialized
		return
	}

	if len(snap.Settings) > 0 {
		r.adoptDefaultsLocked(true)
	}
}

func (r *Registry) adoptDefaultsLocked(persist bool) {
	r.formats = Defaults()
	r.state = StateInitialized
	r.persistDefaults = persist
}

// TakePendingDefaults returns the defaults that still need to be written to
// the settings store and clears the flag.
func (r *Registry) TakePendingDefaults() ([]Format, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.persistDefaults {
		return nil, false
	}
	r.persistDefaults = false
	return append([]Format{}, r.formats...), true
}

// requeueDefaults raises the persist flag again after a failed write.
func (r *Registry) requeueDefaults() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistDefaults = true
}

// Add validates label against the current list and appends a new format.
func (r *Registry) Add(label string) (Format, []Format, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateUninitialized {
		return Format{}, nil, errcodes.NotReady("Course formats")
	}

	f := New(label)
	if f.Label == "" {
		return Format{}, nil, errcodes.ValidationError("Format label can't be empty.")
	}
	if !Validate(r.formats, label) {
		return Format{}, nil, errcodes.Conflict(fmt.Sprintf("Format %q already exists.", f.Label))
	}

	r.formats = append(r.formats, f)
	return f, append([]Format{}, r.formats...), nil
}

// Remove drops the format with the given slug.
func (r *Registry) Remove(value string) ([]Format, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateUninitialized {
		return nil, errcodes.NotReady("Course formats")
	}

	for i, f := range r.formats {
		if f.Value == value {
			r.formats = append(r.formats[:i:i], r.formats[i+1:]...)
			return append([]Format{}, r.formats...), nil
		}
	}
	return nil, errcodes.NotFound("Format")
}

func (r *Registry) restore(list []Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats = list
}

func decodeFormats(raw string) ([]Format, error) {
	if raw == "" {
		return nil, nil
	}
	var list []Format
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, errors.WithStack(err)
	}
	return list, nil
}

func encodeFormats(list []Format) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(data), nil
}
