package common

import (
	"errors"
	"strings"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a campaign may move from s to the given
// status. Completed is terminal and nothing ever moves back to Pending.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusCompleted
	}
	return false
}

// Fixed department codes
const (
	DeptMarketing  = "MKT"
	DeptSales      = "SLS"
	DeptProduct    = "PRD"
	DeptOperations = "OPS"
	DeptFinance    = "FIN"
)

func ValidDepartment(code string) bool {
	switch code {
	case DeptMarketing, DeptSales, DeptProduct, DeptOperations, DeptFinance:
		return true
	}
	return false
}

const MinOutcomesLen = 10

var (
	ErrBadTransition = errors.New("status transition not permitted")
	ErrNoCompletion  = errors.New("completion details required")
	ErrBadReach      = errors.New("Please provide a positive expected reach")
	ErrShortOutcomes = errors.New("Please describe the campaign outcomes in more detail")
	ErrBadDepartment = errors.New("Please provide a valid department code")
	ErrBadPrice      = errors.New("Please provide a positive price")
)

type CompletionDetails struct {
	ExpectedReach int64  `json:"expectedReach"`
	Outcomes      string `json:"outcomes"`
}

func (cd *CompletionDetails) Check() error {
	if cd.ExpectedReach <= 0 {
		return ErrBadReach
	}
	if len(strings.TrimSpace(cd.Outcomes)) < MinOutcomesLen {
		return ErrShortOutcomes
	}
	return nil
}

type Campaign struct {
	Id   string `json:"id"` // Should not be passed for logCampaign
	Name string `json:"name"`

	Department   string `json:"department"`
	Deliverables string `json:"deliverables,omitempty"`
	Date         string `json:"date,omitempty"`

	PricePaid float64 `json:"pricePaid"`

	// Weak reference; the influencer may be deleted out from under us and
	// the campaign must keep rendering (with an N/A influencer).
	InfluencerId string `json:"influencerId,omitempty"`

	Status Status `json:"approvalStatus"`

	// Present iff Status == StatusCompleted
	Completion *CompletionDetails `json:"completionDetails,omitempty"`
}

func (cmp *Campaign) Check(newCmp bool) error {
	if newCmp && cmp.Id != "" {
		return ErrBadCampaignId
	}
	cmp.Name = strings.TrimSpace(cmp.Name)
	if cmp.Name == "" {
		return ErrNoName
	}
	if !ValidDepartment(cmp.Department) {
		return ErrBadDepartment
	}
	if cmp.PricePaid <= 0 {
		return ErrBadPrice
	}
	return nil
}

var ErrBadCampaignId = errors.New("invalid campaign id")

// Transition moves the campaign to the given status. Completion details
// are required for (and only applied on) the move to Completed; on any
// error the prior status and details are left untouched.
func (cmp *Campaign) Transition(to Status, details *CompletionDetails) error {
	if !cmp.Status.CanTransition(to) {
		return ErrBadTransition
	}
	if to == StatusCompleted {
		if details == nil {
			return ErrNoCompletion
		}
		if err := details.Check(); err != nil {
			return err
		}
		cmp.Completion = details
	}
	cmp.Status = to
	return nil
}
