package server

import (
	"sync"

	"github.com/nxthub/influencewise/internal/advisory"
	"github.com/nxthub/influencewise/internal/common"
	"github.com/nxthub/influencewise/internal/forms"
	"github.com/nxthub/influencewise/misc"
)

// campaignView is the list/detail shape of a campaign: the record plus the
// resolved influencer display name. A dangling influencer reference
// renders as "N/A", never as an error.
type campaignView struct {
	*common.Campaign
	InfluencerName string `json:"influencerName"`
}

func (srv *Server) campaignView(cmp *common.Campaign) *campaignView {
	v := &campaignView{Campaign: cmp, InfluencerName: "N/A"}
	if cmp.InfluencerId != "" {
		if inf, ok := srv.Influencers.Get(cmp.InfluencerId); ok {
			v.InfluencerName = inf.Name
		}
	}
	return v
}

// knownProfiles feeds the duplicate advisory prompt from the live cache.
func (srv *Server) knownProfiles() []advisory.KnownProfile {
	all := srv.Influencers.GetAll()
	out := make([]advisory.KnownProfile, 0, len(all))
	for _, inf := range all {
		out = append(out, advisory.KnownProfile{
			Id:          inf.Id,
			LegalName:   inf.LegalId,
			Mobile:      inf.Mobile,
			ChannelLink: inf.ChannelLink(),
		})
	}
	return out
}

// priceBenchmarks resolves an influencer reference into the name and
// previous-price history used by the price advisory.
func (srv *Server) priceBenchmarks(influencerId string) (string, []float64) {
	inf, ok := srv.Influencers.Get(influencerId)
	if !ok {
		return "", nil
	}
	var marks []float64
	if inf.LastPricePaid > 0 {
		marks = append(marks, inf.LastPricePaid)
	}
	for _, cmp := range srv.Campaigns.GetAll() {
		if cmp.InfluencerId == influencerId && cmp.PricePaid > 0 {
			marks = append(marks, cmp.PricePaid)
		}
	}
	return inf.Name, marks
}

// draftSessions holds the server side of the open dialogs, keyed by a
// draft id handed to the client on open.
type draftSessions struct {
	mux sync.Mutex
	inf map[string]*forms.InfluencerDialog
	cmp map[string]*forms.CampaignDialog
}

func newDraftSessions() *draftSessions {
	return &draftSessions{
		inf: make(map[string]*forms.InfluencerDialog),
		cmp: make(map[string]*forms.CampaignDialog),
	}
}

func (ds *draftSessions) addInfluencer(d *forms.InfluencerDialog) string {
	id := misc.PseudoUUID()
	ds.mux.Lock()
	ds.inf[id] = d
	ds.mux.Unlock()
	return id
}

func (ds *draftSessions) getInfluencer(id string) *forms.InfluencerDialog {
	ds.mux.Lock()
	defer ds.mux.Unlock()
	return ds.inf[id]
}

func (ds *draftSessions) removeInfluencer(id string) *forms.InfluencerDialog {
	ds.mux.Lock()
	defer ds.mux.Unlock()
	d := ds.inf[id]
	delete(ds.inf, id)
	return d
}

func (ds *draftSessions) addCampaign(d *forms.CampaignDialog) string {
	id := misc.PseudoUUID()
	ds.mux.Lock()
	ds.cmp[id] = d
	ds.mux.Unlock()
	return id
}

func (ds *draftSessions) getCampaign(id string) *forms.CampaignDialog {
	ds.mux.Lock()
	defer ds.mux.Unlock()
	return ds.cmp[id]
}

func (ds *draftSessions) removeCampaign(id string) *forms.CampaignDialog {
	ds.mux.Lock()
	defer ds.mux.Unlock()
	d := ds.cmp[id]
	delete(ds.cmp, id)
	return d
}

func (ds *draftSessions) closeAll() {
	ds.mux.Lock()
	defer ds.mux.Unlock()
	for id, d := range ds.inf {
		d.Close()
		delete(ds.inf, id)
	}
	for id, d := range ds.cmp {
		d.Close()
		delete(ds.cmp, id)
	}
}
