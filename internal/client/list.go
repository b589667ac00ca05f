package client

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// SortField names a sortable user attribute
type SortField string

const (
	SortByName    SortField = "name"
	SortByEmail   SortField = "email"
	SortByRole    SortField = "role"
	SortByCreated SortField = "created"
)

// DefaultDebounce is the quiet period after the last filter keystroke before
// the displayed set is recomputed.
const DefaultDebounce = 300 * time.Millisecond

// Fetcher supplies the full user set for a ListView
type Fetcher interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// ListView caches a fetched user list and derives the displayed subset from
// transient UI state: a filter substring, one active sort field with a
// direction, and an optional display cap. The derivation order is fixed:
// filter, then sort, then cap.
type ListView struct {
	mu sync.Mutex

	fetcher Fetcher

	all      []User // last successful fetch
	filtered []User // all narrowed by the active filter, in sort order

	filter    string
	sortField SortField
	ascending bool
	limit     int // 0 means uncapped

	loading bool
	errMsg  string

	debounce      time.Duration
	debounceTimer *time.Timer
	pendingFilter string

	cancelFetch context.CancelFunc
	fetchGen    uint64
	closed      bool
}

// NewListView creates a view over fetcher, sorted by name ascending
func NewListView(fetcher Fetcher) *ListView {
	return &ListView{
		fetcher:   fetcher,
		sortField: SortByName,
		ascending: true,
		debounce:  DefaultDebounce,
	}
}

// SetDebounce overrides the filter debounce delay. Zero applies filter
// changes synchronously.
func (v *ListView) SetDebounce(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.debounce = d
}

// Refresh fetches the full user set, replacing the cache on success. On
// failure the prior displayed set is left untouched and a user-facing message
// is recorded. A Refresh cancels any fetch still in flight; only the latest
// fetch may publish its outcome, so a superseded or torn-down fetch never
// overwrites newer state when it finally completes.
func (v *ListView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return context.Canceled
	}
	if v.cancelFetch != nil {
		v.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancelFetch = cancel
	v.fetchGen++
	gen := v.fetchGen
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	users, err := v.fetcher.ListUsers(fetchCtx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || gen != v.fetchGen {
		return err
	}

	v.loading = false
	if err != nil {
		v.errMsg = "failed to load users"
		return err
	}

	v.all = users
	v.refilter()
	return nil
}

// SetFilter records the filter text and recomputes the displayed set once the
// debounce period passes with no further input. Rapid calls coalesce; only
// the settled value triggers recomputation.
func (v *ListView) SetFilter(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}

	v.pendingFilter = text

	if v.debounce <= 0 {
		v.applyPendingFilter()
		return
	}

	if v.debounceTimer != nil {
		v.debounceTimer.Stop()
	}
	v.debounceTimer = time.AfterFunc(v.debounce, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return
		}
		v.applyPendingFilter()
	})
}

// applyPendingFilter must be called with the lock held
func (v *ListView) applyPendingFilter() {
	v.filter = strings.ToLower(strings.TrimSpace(v.pendingFilter))
	v.refilter()
}

// SortBy sorts the displayed set by field. Requesting the active field again
// flips the direction; a new field resets to ascending.
func (v *ListView) SortBy(field SortField) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if field == v.sortField {
		v.ascending = !v.ascending
	} else {
		v.sortField = field
		v.ascending = true
	}
	v.resort()
}

// SortByDirection sorts by field in an explicit direction, skipping the
// toggle behavior.
func (v *ListView) SortByDirection(field SortField, ascending bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sortField = field
	v.ascending = ascending
	v.resort()
}

// SetLimit caps the displayed set to n entries, applied strictly after
// filtering and sorting. Zero removes the cap.
func (v *ListView) SetLimit(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.limit = n
}

// Visible returns the displayed set: filter, then sort, then cap
func (v *ListView) Visible() []User {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := v.filtered
	if v.limit > 0 && len(out) > v.limit {
		out = out[:v.limit]
	}

	result := make([]User, len(out))
	copy(result, out)
	return result
}

// Loading reports whether a fetch is in flight
func (v *ListView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the user-facing message from the last failed fetch, if any
func (v *ListView) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// Close tears the view down: the debounce timer is stopped and any in-flight
// fetch is cancelled so nothing acts on a destroyed view.
func (v *ListView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	if v.debounceTimer != nil {
		v.debounceTimer.Stop()
	}
	if v.cancelFetch != nil {
		v.cancelFetch()
	}
}

// refilter rebuilds the filtered set from the full set and re-sorts it.
// Must be called with the lock held.
func (v *ListView) refilter() {
	if v.filter == "" {
		v.filtered = make([]User, len(v.all))
		copy(v.filtered, v.all)
	} else {
		v.filtered = v.filtered[:0]
		for _, user := range v.all {
			if matchesFilter(user, v.filter) {
				v.filtered = append(v.filtered, user)
			}
		}
	}
	v.resort()
}

// resort re-sorts the already filtered set in place. Sorting never reaches
// back to the full set; the active filter stays applied.
// Must be called with the lock held.
func (v *ListView) resort() {
	sortUsers(v.filtered, v.sortField, v.ascending)
}

// matchesFilter reports whether the lowercased query is a substring of the
// user's name, email, or role, case-insensitively.
func matchesFilter(user User, query string) bool {
	return strings.Contains(strings.ToLower(user.Name), query) ||
		strings.Contains(strings.ToLower(user.Email), query) ||
		strings.Contains(strings.ToLower(user.Role), query)
}

// sortValue extracts the comparison value for field. ok is false when the
// value is undefined: empty, or not parseable as a date for the created
// field.
func sortValue(user User, field SortField) (string, bool) {
	var value string
	switch field {
	case SortByName:
		value = user.Name
	case SortByEmail:
		value = user.Email
	case SortByRole:
		value = user.Role
	case SortByCreated:
		value = user.CreatedAt
		if value == "" {
			return value, false
		}
		_, err := time.Parse(time.RFC3339, value)
		return value, err == nil
	}
	return value, value != ""
}

// sortUsers sorts users stably by field. Undefined values go last in
// ascending order and first in descending order; the created field is
// compared as a date even though it travels as text.
func sortUsers(users []User, field SortField, ascending bool) {
	sort.SliceStable(users, func(i, j int) bool {
		av, aok := sortValue(users[i], field)
		bv, bok := sortValue(users[j], field)

		if aok != bok {
			if ascending {
				return aok
			}
			return !aok
		}
		if !aok {
			return false
		}

		cmp := strings.Compare(av, bv)
		if field == SortByCreated {
			// Both values parsed in sortValue, or they would be undefined
			at, _ := time.Parse(time.RFC3339, av)
			bt, _ := time.Parse(time.RFC3339, bv)
			switch {
			case at.Before(bt):
				cmp = -1
			case at.After(bt):
				cmp = 1
			default:
				cmp = 0
			}
		}

		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
}
