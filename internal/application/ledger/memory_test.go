package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
)

// memStore is an in-memory store that copies values in and out, so that a
// failed unit of work can be rolled back by restoring a snapshot.
type memStore struct {
	entries       map[uuid.UUID]ledger.Entry
	balances      map[uuid.UUID]ledger.AccountBalance
	profiles      map[uuid.UUID]shareholding.CompanyShareProfile
	holders       map[uuid.UUID]shareholding.Shareholder
	distributions map[string]shareholding.Distribution
	buses         map[uuid.UUID]reference.Bus
	operators     map[uuid.UUID]reference.Operator
	agents        map[uuid.UUID]reference.Agent
	categories    map[uuid.UUID]reference.Category
	locks         []string
}

func newMemStore() *memStore {
	return &memStore{
		entries:       map[uuid.UUID]ledger.Entry{},
		balances:      map[uuid.UUID]ledger.AccountBalance{},
		profiles:      map[uuid.UUID]shareholding.CompanyShareProfile{},
		holders:       map[uuid.UUID]shareholding.Shareholder{},
		distributions: map[string]shareholding.Distribution{},
		buses:         map[uuid.UUID]reference.Bus{},
		operators:     map[uuid.UUID]reference.Operator{},
		agents:        map[uuid.UUID]reference.Agent{},
		categories:    map[uuid.UUID]reference.Category{},
	}
}

func copyMap[K comparable, V any](m map[K]V, clone func(V) V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		if clone != nil {
			v = clone(v)
		}
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() *memStore {
	return &memStore{
		entries:       copyMap(s.entries, cloneEntry),
		balances:      copyMap(s.balances, nil),
		profiles:      copyMap(s.profiles, nil),
		holders:       copyMap(s.holders, nil),
		distributions: copyMap(s.distributions, nil),
		buses:         copyMap(s.buses, nil),
		operators:     copyMap(s.operators, nil),
		agents:        copyMap(s.agents, nil),
		categories:    copyMap(s.categories, nil),
	}
}

func cloneEntry(e ledger.Entry) ledger.Entry {
	c := e
	c.ClearDomainEvents()
	if e.DeferredSale != nil {
		sale := *e.DeferredSale
		if sale.Collection != nil {
			col := *sale.Collection
			sale.Collection = &col
		}
		if sale.Commission != nil {
			com := *sale.Commission
			sale.Commission = &com
		}
		c.DeferredSale = &sale
	}
	if e.Settlement != nil {
		link := *e.Settlement
		if link.SettledEntryID != nil {
			id := *link.SettledEntryID
			link.SettledEntryID = &id
		}
		c.Settlement = &link
	}
	return c
}

// memScope runs units of work against a memStore, restoring the previous
// state when fn fails
type memScope struct {
	mu    sync.Mutex
	store *memStore
	calls int
	// locks lists the rows the last unit of work locked, in order
	locks []string
}

func newMemScope() *memScope {
	return &memScope{store: newMemStore()}
}

func (m *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.store.locks = nil
	before := m.store.snapshot()
	err := fn(memRepos{m.store})
	m.locks = m.store.locks
	if err != nil {
		m.store = before
		return err
	}
	return nil
}

type memRepos struct{ s *memStore }

func (r memRepos) Entries() ledger.EntryRepository                    { return memEntries{r.s} }
func (r memRepos) Balances() ledger.AccountBalanceRepository          { return memBalances{r.s} }
func (r memRepos) Profiles() shareholding.ProfileRepository           { return memProfiles{r.s} }
func (r memRepos) Distributions() shareholding.DistributionRepository { return memDistributions{r.s} }
func (r memRepos) Buses() reference.BusRepository {
	return memRefs[reference.Bus]{items: r.s.buses, key: func(b *reference.Bus) (uuid.UUID, uuid.UUID) { return b.TenantID, b.ID }}
}
func (r memRepos) Operators() reference.OperatorRepository {
	return memRefs[reference.Operator]{items: r.s.operators, key: func(o *reference.Operator) (uuid.UUID, uuid.UUID) { return o.TenantID, o.ID }}
}
func (r memRepos) Agents() reference.AgentRepository {
	return memRefs[reference.Agent]{items: r.s.agents, key: func(a *reference.Agent) (uuid.UUID, uuid.UUID) { return a.TenantID, a.ID }}
}
func (r memRepos) Categories() reference.CategoryRepository {
	return memRefs[reference.Category]{items: r.s.categories, key: func(c *reference.Category) (uuid.UUID, uuid.UUID) { return c.TenantID, c.ID }}
}

type memEntries struct{ s *memStore }

func (r memEntries) FindByID(_ context.Context, id uuid.UUID) (*ledger.Entry, error) {
	e, ok := r.s.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := cloneEntry(e)
	return &c, nil
}

func (r memEntries) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	r.s.locks = append(r.s.locks, "entry")
	return r.FindByID(ctx, id)
}

func (r memEntries) sorted(tenantID uuid.UUID, keep func(e *ledger.Entry) bool) []ledger.Entry {
	var out []ledger.Entry
	for _, e := range r.s.entries {
		if e.TenantID != tenantID {
			continue
		}
		c := cloneEntry(e)
		if keep(&c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r memEntries) FindAllForTenant(_ context.Context, tenantID uuid.UUID, f ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	all := r.sorted(tenantID, func(e *ledger.Entry) bool {
		switch {
		case f.Direction != nil && e.Direction != *f.Direction,
			f.Channel != nil && e.Channel != *f.Channel,
			f.CategoryID != nil && e.CategoryID != *f.CategoryID,
			f.DeferredOnly && !e.IsDeferred,
			f.PendingOnly && (!e.IsDeferred || e.OutstandingDue.IsZero()),
			!f.Period.Contains(e.CreatedAt):
			return false
		}
		return true
	})
	total := int64(len(all))
	start := f.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r memEntries) FindByPeriod(_ context.Context, tenantID uuid.UUID, period ledger.Period) ([]ledger.Entry, error) {
	return r.sorted(tenantID, func(e *ledger.Entry) bool { return period.Contains(e.CreatedAt) }), nil
}

func (r memEntries) FindProfitCandidates(_ context.Context, tenantID uuid.UUID, period ledger.Period) ([]ledger.Entry, error) {
	return r.sorted(tenantID, func(e *ledger.Entry) bool {
		return period.Contains(e.CreatedAt) && e.CountsTowardProfit()
	}), nil
}

func (r memEntries) SumDebitsExcludingCategory(_ context.Context, tenantID uuid.UUID, period ledger.Period, categoryName string) (valueobject.Money, error) {
	total := valueobject.Zero()
	for _, e := range r.sorted(tenantID, func(e *ledger.Entry) bool {
		return e.Direction == ledger.DirectionDebit && period.Contains(e.CreatedAt)
	}) {
		if c, ok := r.s.categories[e.CategoryID]; ok && strings.EqualFold(c.Name, categoryName) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (r memEntries) Save(_ context.Context, entry *ledger.Entry) error {
	r.s.entries[entry.ID] = cloneEntry(*entry)
	return nil
}

func (r memEntries) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	e, ok := r.s.entries[id]
	if !ok || e.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.s.entries, id)
	return nil
}

func (r memEntries) DetachSettlements(_ context.Context, tenantID, settledEntryID uuid.UUID) error {
	for id, e := range r.s.entries {
		if e.TenantID != tenantID || e.Settlement == nil || e.Settlement.SettledEntryID == nil {
			continue
		}
		if *e.Settlement.SettledEntryID == settledEntryID {
			c := cloneEntry(e)
			c.Settlement.SettledEntryID = nil
			r.s.entries[id] = c
		}
	}
	return nil
}

type memBalances struct{ s *memStore }

func (r memBalances) Find(_ context.Context, tenantID uuid.UUID) (*ledger.AccountBalance, error) {
	b, ok := r.s.balances[tenantID]
	if !ok {
		return ledger.NewAccountBalance(tenantID), nil
	}
	return &b, nil
}

func (r memBalances) FindForUpdate(ctx context.Context, tenantID uuid.UUID) (*ledger.AccountBalance, error) {
	r.s.locks = append(r.s.locks, "balances")
	b, _ := r.Find(ctx, tenantID)
	r.s.balances[tenantID] = *b
	return b, nil
}

func (r memBalances) Save(_ context.Context, b *ledger.AccountBalance) error {
	r.s.balances[b.TenantID] = *b
	return nil
}

type memProfiles struct{ s *memStore }

func (r memProfiles) FindByTenant(_ context.Context, tenantID uuid.UUID) (*shareholding.CompanyShareProfile, error) {
	p, ok := r.s.profiles[tenantID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	p.ClearDomainEvents()
	p.Shareholders = nil
	for _, h := range r.s.holders {
		if h.ProfileID == p.ID {
			p.Shareholders = append(p.Shareholders, h)
		}
	}
	sort.Slice(p.Shareholders, func(i, j int) bool { return p.Shareholders[i].Name < p.Shareholders[j].Name })
	return &p, nil
}

func (r memProfiles) FindByTenantForUpdate(ctx context.Context, tenantID uuid.UUID) (*shareholding.CompanyShareProfile, error) {
	r.s.locks = append(r.s.locks, "shareholders")
	return r.FindByTenant(ctx, tenantID)
}

func (r memProfiles) ExistsForTenant(_ context.Context, tenantID uuid.UUID) (bool, error) {
	_, ok := r.s.profiles[tenantID]
	return ok, nil
}

func (r memProfiles) Save(_ context.Context, p *shareholding.CompanyShareProfile) error {
	stored := *p
	stored.Shareholders = nil
	r.s.profiles[p.TenantID] = stored
	for _, h := range p.Shareholders {
		r.s.holders[h.ID] = h
	}
	return nil
}

func (r memProfiles) FindShareholderForUpdate(_ context.Context, tenantID, id uuid.UUID) (*shareholding.Shareholder, error) {
	r.s.locks = append(r.s.locks, "shareholder")
	h, ok := r.s.holders[id]
	if !ok || h.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &h, nil
}

func (r memProfiles) FindShareholderByNameForUpdate(_ context.Context, tenantID uuid.UUID, name string) (*shareholding.Shareholder, error) {
	r.s.locks = append(r.s.locks, "shareholder")
	for _, h := range r.s.holders {
		if h.TenantID == tenantID && strings.EqualFold(h.Name, name) {
			return &h, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memProfiles) SaveShareholder(_ context.Context, h *shareholding.Shareholder) error {
	r.s.holders[h.ID] = *h
	return nil
}

func (r memProfiles) ListTenantIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range r.s.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

type memDistributions struct{ s *memStore }

func distKey(holderID uuid.UUID, period string) string {
	return holderID.String() + "|" + period
}

func (r memDistributions) FindForUpdate(_ context.Context, holderID uuid.UUID, period string) (*shareholding.Distribution, error) {
	r.s.locks = append(r.s.locks, "distribution")
	d, ok := r.s.distributions[distKey(holderID, period)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (r memDistributions) Save(_ context.Context, d *shareholding.Distribution) error {
	r.s.distributions[distKey(d.ShareholderID, d.Period)] = *d
	return nil
}

func (r memDistributions) FindByTenant(_ context.Context, tenantID uuid.UUID, period string) ([]shareholding.Distribution, error) {
	var out []shareholding.Distribution
	for _, d := range r.s.distributions {
		if d.TenantID == tenantID && (period == "" || d.Period == period) {
			out = append(out, d)
		}
	}
	return out, nil
}

type memRefs[T reference.Named] struct {
	items map[uuid.UUID]T
	key   func(*T) (tenantID, id uuid.UUID)
}

func (r memRefs[T]) FindByID(_ context.Context, tenantID, id uuid.UUID) (*T, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if owner, _ := r.key(&item); owner != tenantID {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r memRefs[T]) FindAll(_ context.Context, tenantID uuid.UUID) ([]T, error) {
	var out []T
	for _, item := range r.items {
		if owner, _ := r.key(&item); owner == tenantID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r memRefs[T]) ExistsByName(_ context.Context, tenantID uuid.UUID, name string) (bool, error) {
	for _, item := range r.items {
		if owner, _ := r.key(&item); owner == tenantID && strings.EqualFold(item.GetName(), name) {
			return true, nil
		}
	}
	return false, nil
}

func (r memRefs[T]) Save(_ context.Context, entity *T) error {
	_, id := r.key(entity)
	r.items[id] = *entity
	return nil
}

func (r memRefs[T]) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	item, ok := r.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	if owner, _ := r.key(&item); owner != tenantID {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
