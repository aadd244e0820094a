package common

import (
	"sort"
	"strconv"
	"sync"
)

// Campaigns keeps a live copy of the campaign collection so list views and
// the engine don't constantly unmarshal out of the store.
type Campaigns struct {
	mux   sync.RWMutex
	store map[string]*Campaign
}

func NewCampaigns() *Campaigns {
	return &Campaigns{
		store: make(map[string]*Campaign),
	}
}

func (p *Campaigns) Set(cmps map[string]*Campaign) {
	p.mux.Lock()
	p.store = cmps
	p.mux.Unlock()
}

func (p *Campaigns) Delete(id string) {
	p.mux.Lock()
	delete(p.store, id)
	p.mux.Unlock()
}

func (p *Campaigns) Get(id string) (*Campaign, bool) {
	p.mux.RLock()
	val, ok := p.store[id]
	p.mux.RUnlock()
	return val, ok
}

// GetAll returns campaigns ordered by id so list views are stable between
// refreshes.
func (p *Campaigns) GetAll() []*Campaign {
	p.mux.RLock()
	all := make([]*Campaign, 0, len(p.store))
	for _, cmp := range p.store {
		all = append(all, cmp)
	}
	p.mux.RUnlock()
	sort.Slice(all, func(i, j int) bool { return lessId(all[i].Id, all[j].Id) })
	return all
}

// Influencers is the influencer counterpart of Campaigns.
type Influencers struct {
	mux   sync.RWMutex
	store map[string]*Influencer
}

func NewInfluencers() *Influencers {
	return &Influencers{
		store: make(map[string]*Influencer),
	}
}

func (p *Influencers) Set(infs map[string]*Influencer) {
	p.mux.Lock()
	p.store = infs
	p.mux.Unlock()
}

func (p *Influencers) Delete(id string) {
	p.mux.Lock()
	delete(p.store, id)
	p.mux.Unlock()
}

func (p *Influencers) Get(id string) (*Influencer, bool) {
	p.mux.RLock()
	val, ok := p.store[id]
	p.mux.RUnlock()
	return val, ok
}

func (p *Influencers) GetAll() []*Influencer {
	p.mux.RLock()
	all := make([]*Influencer, 0, len(p.store))
	for _, inf := range p.store {
		all = append(all, inf)
	}
	p.mux.RUnlock()
	sort.Slice(all, func(i, j int) bool { return lessId(all[i].Id, all[j].Id) })
	return all
}

// lessId orders numeric ids numerically (the index bucket hands out
// numeric strings), falling back to a string compare.
func lessId(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
