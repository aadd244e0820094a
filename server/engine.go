package server

import (
	"encoding/json"
	"log"

	"github.com/nxthub/influencewise/internal/common"
	"github.com/nxthub/influencewise/internal/store"
)

// newEngine wires the live caches to the store: each collection
// subscription feeds a single goroutine, so snapshots are applied in the
// order they arrive.
func newEngine(srv *Server) error {
	infCh, unsubInf := srv.store.Subscribe(srv.Cfg.Bucket.Influencer)
	srv.unsubs = append(srv.unsubs, unsubInf)
	go func() {
		for snap := range infCh {
			srv.Influencers.Set(influencersFromSnapshot(snap))
		}
	}()

	cmpCh, unsubCmp := srv.store.Subscribe(srv.Cfg.Bucket.Campaign)
	srv.unsubs = append(srv.unsubs, unsubCmp)
	go func() {
		for snap := range cmpCh {
			srv.Campaigns.Set(campaignsFromSnapshot(snap))
		}
	}()

	// snapshot failures land on a dedicated channel instead of taking the
	// views down
	go func() {
		for err := range srv.store.Errors() {
			log.Println("store subscription error:", err)
		}
	}()

	go srv.auth.PurgeInvalidTokens()

	return nil
}

func influencersFromSnapshot(snap *store.Snapshot) map[string]*common.Influencer {
	out := make(map[string]*common.Influencer, len(snap.Records))
	for _, rec := range snap.Records {
		inf := &common.Influencer{}
		if err := json.Unmarshal(rec.Data, inf); err != nil {
			log.Println("error when unmarshalling influencer", string(rec.Data))
			continue
		}
		out[rec.Id] = inf
	}
	return out
}

func campaignsFromSnapshot(snap *store.Snapshot) map[string]*common.Campaign {
	out := make(map[string]*common.Campaign, len(snap.Records))
	for _, rec := range snap.Records {
		cmp := &common.Campaign{}
		if err := json.Unmarshal(rec.Data, cmp); err != nil {
			log.Println("error when unmarshalling campaign", string(rec.Data))
			continue
		}
		out[rec.Id] = cmp
	}
	return out
}
