package forms

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nxthub/influencewise/internal/advisory"
	"github.com/nxthub/influencewise/internal/common"
	"github.com/nxthub/influencewise/internal/store"
)

// DuplicateSource supplies the existing-profile benchmark rows for the
// duplicate advisory prompt.
type DuplicateSource func() []advisory.KnownProfile

// BenchmarkSource resolves an influencer reference into the display name
// and the previous-price benchmarks used by the price advisory.
type BenchmarkSource func(influencerId string) (name string, benchmarks []float64)

// InfluencerDialog is the add-influencer form: a draft, its advisory
// pipeline, and a submit path into the influencer collection.
type InfluencerDialog struct {
	mu      sync.Mutex
	draft   common.Influencer
	advice  *advisory.DuplicateAdvisory
	checker *advisory.Checker
	st      *store.Store
	bucket  string
	open    bool
}

func NewInfluencerDialog(st *store.Store, bucket string, client *advisory.Client,
	known DuplicateSource, window, timeout time.Duration) *InfluencerDialog {

	d := &InfluencerDialog{st: st, bucket: bucket, open: true}
	d.checker = advisory.NewChecker(window, timeout,
		func(ctx context.Context, f advisory.Fields) (interface{}, error) {
			if client == nil {
				return nil, nil
			}
			adv, err := client.CheckDuplicate(ctx, f.(advisory.DuplicateFields), known())
			if err != nil {
				return nil, err
			}
			return adv, nil
		},
		func(res interface{}) {
			d.mu.Lock()
			defer d.mu.Unlock()
			if !d.open {
				return
			}
			if res == nil {
				d.advice = nil
				return
			}
			d.advice = res.(*advisory.DuplicateAdvisory)
		})
	return d
}

// SetDraft replaces the draft and feeds the watched fields through the
// debounced advisory pipeline.
func (d *InfluencerDialog) SetDraft(inf common.Influencer) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return
	}
	d.draft = inf
	d.mu.Unlock()

	d.checker.Update(advisory.DuplicateFields{
		MobileNumber: inf.Mobile,
		LegalName:    inf.LegalId,
		ChannelLink:  inf.ChannelLink(),
	})
}

func (d *InfluencerDialog) Draft() common.Influencer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// Advisory returns the latest applied advisory, or nil when none (or when
// the check failed, which downgrades to "no advisory").
func (d *InfluencerDialog) Advisory() *advisory.DuplicateAdvisory {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.advice
}

// Submit validates the draft and creates the record. Validation or store
// failure keeps the dialog open with the draft intact; success clears the
// draft and closes the dialog.
func (d *InfluencerDialog) Submit() (string, error) {
	d.mu.Lock()
	inf := d.draft
	d.mu.Unlock()

	if fe := ValidateInfluencer(&inf); len(fe) > 0 {
		return "", fe
	}
	id, err := d.st.CreateAssign(d.bucket, func(id string) interface{} {
		inf.Id = id
		return &inf
	})
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	d.draft = common.Influencer{}
	d.mu.Unlock()
	d.Close()
	return id, nil
}

// Close cancels the pending debounce timer and makes any late advisory
// response a no-op. Idempotent.
func (d *InfluencerDialog) Close() {
	d.checker.Close()
	d.mu.Lock()
	d.open = false
	d.advice = nil
	d.mu.Unlock()
}

// CampaignDialog is the log-campaign form with the price-anomaly advisory.
type CampaignDialog struct {
	mu      sync.Mutex
	draft   common.Campaign
	advice  *advisory.PriceAdvisory
	checker *advisory.Checker
	st      *store.Store
	bucket  string
	bench   BenchmarkSource
	open    bool
}

func NewCampaignDialog(st *store.Store, bucket string, client *advisory.Client,
	bench BenchmarkSource, window, timeout time.Duration) *CampaignDialog {

	d := &CampaignDialog{st: st, bucket: bucket, open: true}
	d.checker = advisory.NewChecker(window, timeout,
		func(ctx context.Context, f advisory.Fields) (interface{}, error) {
			if client == nil {
				return nil, nil
			}
			adv, err := client.CheckPrice(ctx, f.(advisory.PriceFields))
			if err != nil {
				return nil, err
			}
			return adv, nil
		},
		func(res interface{}) {
			d.mu.Lock()
			defer d.mu.Unlock()
			if !d.open {
				return
			}
			if res == nil {
				d.advice = nil
				return
			}
			d.advice = res.(*advisory.PriceAdvisory)
		})
	d.bench = bench
	return d
}

func (d *CampaignDialog) SetDraft(cmp common.Campaign) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return
	}
	d.draft = cmp
	bench := d.bench
	d.mu.Unlock()

	var (
		name  string
		marks []float64
	)
	if bench != nil && cmp.InfluencerId != "" {
		name, marks = bench(cmp.InfluencerId)
	}
	d.checker.Update(advisory.PriceFields{
		InfluencerName: name,
		ProposedPrice:  cmp.PricePaid,
		Benchmarks:     marks,
	})
}

func (d *CampaignDialog) Draft() common.Campaign {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

func (d *CampaignDialog) Advisory() *advisory.PriceAdvisory {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.advice
}

// Submit validates and logs the campaign; new campaigns always start out
// Pending regardless of what the draft carries.
func (d *CampaignDialog) Submit() (string, error) {
	d.mu.Lock()
	cmp := d.draft
	d.mu.Unlock()

	if fe := ValidateCampaign(&cmp); len(fe) > 0 {
		return "", fe
	}
	cmp.Status = common.StatusPending
	cmp.Completion = nil

	id, err := d.st.CreateAssign(d.bucket, func(id string) interface{} {
		cmp.Id = id
		return &cmp
	})
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	d.draft = common.Campaign{}
	d.mu.Unlock()
	d.Close()
	return id, nil
}

func (d *CampaignDialog) Close() {
	d.checker.Close()
	d.mu.Lock()
	d.open = false
	d.advice = nil
	d.mu.Unlock()
}

// CompletionDialog is the complete-campaign form. It has no advisory
// pipeline; its submit is the Approved -> Completed transition with the
// completion details attached atomically.
type CompletionDialog struct {
	mu         sync.Mutex
	draft      common.CompletionDetails
	st         *store.Store
	bucket     string
	campaignId string
	open       bool
}

func NewCompletionDialog(st *store.Store, bucket, campaignId string) *CompletionDialog {
	return &CompletionDialog{st: st, bucket: bucket, campaignId: campaignId, open: true}
}

func (d *CompletionDialog) SetDraft(cd common.CompletionDetails) {
	d.mu.Lock()
	if d.open {
		d.draft = cd
	}
	d.mu.Unlock()
}

func (d *CompletionDialog) Draft() common.CompletionDetails {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// Submit validates and applies the completion transition. Any failure
// (validation, bad transition, missing campaign) leaves the stored status
// untouched and the dialog open.
func (d *CompletionDialog) Submit() error {
	d.mu.Lock()
	cd := d.draft
	id := d.campaignId
	d.mu.Unlock()

	if fe := ValidateCompletion(&cd); len(fe) > 0 {
		return fe
	}
	if err := d.st.Update(d.bucket, id, func(raw json.RawMessage) (interface{}, error) {
		var cmp common.Campaign
		if err := json.Unmarshal(raw, &cmp); err != nil {
			return nil, err
		}
		if err := cmp.Transition(common.StatusCompleted, &cd); err != nil {
			return nil, err
		}
		return &cmp, nil
	}); err != nil {
		return err
	}

	d.mu.Lock()
	d.draft = common.CompletionDetails{}
	d.open = false
	d.mu.Unlock()
	return nil
}

func (d *CompletionDialog) Close() {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
}
