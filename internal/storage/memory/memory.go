package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"subtrack/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]core.Subscription
}

func New(seed ...core.Subscription) *Store {
	s := &Store{items: make(map[int64]core.Subscription)}
	for _, sub := range seed {
		_, _ = s.Insert(context.Background(), sub)
	}
	return s
}

// seedEntry is one subscription in a YAML seed file.
type seedEntry struct {
	Name     string `yaml:"name"`
	Amount   string `yaml:"amount"`
	Cycle    string `yaml:"billing_cycle"`
	Category string `yaml:"category"`
	Start    string `yaml:"start_date"`
}

type seedFile struct {
	Subscriptions []seedEntry `yaml:"subscriptions"`
}

// NewFromFile builds a store from a YAML seed file. A missing file yields an
// empty store. Renewal dates are projected from now.
func NewFromFile(path string, now time.Time) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	store := New()
	for i, e := range f.Subscriptions {
		cents, err := core.ParseDecimalToCents(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d (%s): amount %q: %w", i, e.Name, e.Amount, err)
		}
		start, err := core.ParseDate(e.Start)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d (%s): start_date %q: %w", i, e.Name, e.Start, err)
		}
		sub := core.Subscription{
			Name:      e.Name,
			Amount:    core.Money{Cents: cents},
			Cycle:     core.ParseBillingCycle(e.Cycle),
			Category:  core.ResolveCategory(e.Category, ""),
			StartDate: start,
		}
		sub.RenewalDate = core.NextRenewal(sub.StartDate, sub.Cycle, now)
		if err := sub.Validate(); err != nil {
			return nil, fmt.Errorf("seed entry %d (%s): %w", i, e.Name, err)
		}
		if _, err := store.Insert(context.Background(), sub); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// List returns all subscriptions ordered by name.
func (s *Store) List(_ context.Context) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Insert stores the subscription and assigns it the next ID.
func (s *Store) Insert(_ context.Context, sub core.Subscription) (int64, error) {
	if err := sub.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sub.ID = s.nextID
	s.items[sub.ID] = sub
	return sub.ID, nil
}

// Delete removes a subscription; unknown IDs are ignored.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// ListRenewingBetween returns subscriptions renewing on a day in [from, to].
func (s *Store) ListRenewingBetween(_ context.Context, from, to core.Date) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Subscription, 0)
	for _, sub := range s.snapshot() {
		if sub.RenewalDate.Before(from.Time) || sub.RenewalDate.After(to.Time) {
			continue
		}
		out = append(out, sub)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RenewalDate.Equal(out[j].RenewalDate.Time) {
			return out[i].RenewalDate.Before(out[j].RenewalDate.Time)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) snapshot() []core.Subscription {
	out := make([]core.Subscription, 0, len(s.items))
	for _, sub := range s.items {
		out = append(out, sub)
	}
	return out
}
