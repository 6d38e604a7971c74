// Package memory is a process-local implementation of the repositories. A
// unit of work runs against a copy of the data under the store lock and is
// swapped in only when it succeeds.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"adminhub/internal/domain"
	"adminhub/internal/repository"
)

type state struct {
	products      map[uint64]domain.Product
	categories    map[uint64]domain.Category
	orders        map[uint64]domain.Order
	transactions  map[uint64]domain.Transaction
	notifications map[uint64]domain.Notification
	users         map[uint64]domain.User
	settings      *domain.Settings
	sequences     map[string]int64
	ids           map[string]uint64
}

func newState() *state {
	return &state{
		products:      map[uint64]domain.Product{},
		categories:    map[uint64]domain.Category{},
		orders:        map[uint64]domain.Order{},
		transactions:  map[uint64]domain.Transaction{},
		notifications: map[uint64]domain.Notification{},
		users:         map[uint64]domain.User{},
		sequences:     map[string]int64{},
		ids:           map[string]uint64{},
	}
}

// clone copies every table. Stored values are never mutated in place, so
// copying the maps is enough.
func (st *state) clone() *state {
	out := &state{
		products:      copyMap(st.products),
		categories:    copyMap(st.categories),
		orders:        copyMap(st.orders),
		transactions:  copyMap(st.transactions),
		notifications: copyMap(st.notifications),
		users:         copyMap(st.users),
		sequences:     copyMap(st.sequences),
		ids:           copyMap(st.ids),
	}
	if st.settings != nil {
		s := *st.settings
		out.settings = &s
	}
	return out
}

func (st *state) nextID(table string) uint64 {
	st.ids[table]++
	return st.ids[table]
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: newState(), now: time.Now}
}

// SetClock replaces the time source used for CreatedAt/UpdatedAt.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// access runs fn against the state a repository is bound to.
type access func(fn func(st *state) error) error

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) Repos() repository.Repositories {
	return s.repos(s.locked)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	err := fn(ctx, s.repos(func(f func(st *state) error) error { return f(work) }))
	if err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) repos(a access) repository.Repositories {
	return repository.Repositories{
		Products:      &productRepo{a: a, now: s.clock},
		Categories:    &categoryRepo{a: a, now: s.clock},
		Orders:        &orderRepo{a: a, now: s.clock},
		Transactions:  &transactionRepo{a: a, now: s.clock},
		Notifications: &notificationRepo{a: a, now: s.clock},
		Users:         &userRepo{a: a, now: s.clock},
		Settings:      &settingsRepo{a: a, now: s.clock},
		Sequences:     &sequenceRepo{a: a},
	}
}

// clock is read while the store lock is held.
func (s *Store) clock() time.Time {
	return s.now()
}

var _ repository.Store = (*Store)(nil)

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func newestFirst[T any](items []T, created func(T) time.Time, id func(T) uint64) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
