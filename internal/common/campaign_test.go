package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusApproved, StatusCompleted},
	}
	for _, tc := range legal {
		assert.True(t, tc.from.CanTransition(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	illegal := []struct{ from, to Status }{
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusPending},
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusApproved},
		{StatusRejected, StatusPending},
		{StatusRejected, StatusCompleted},
		{StatusCompleted, StatusPending},
		{StatusCompleted, StatusApproved},
		{StatusCompleted, StatusRejected},
		{StatusPending, StatusPending},
	}
	for _, tc := range illegal {
		assert.False(t, tc.from.CanTransition(tc.to), "%s -> %s should be refused", tc.from, tc.to)
	}
}

func TestTransitionCompletedRequiresDetails(t *testing.T) {
	cmp := &Campaign{Id: "1", Name: "Launch", Status: StatusApproved}

	err := cmp.Transition(StatusCompleted, nil)
	require.Equal(t, ErrNoCompletion, err)
	assert.Equal(t, StatusApproved, cmp.Status)
	assert.Nil(t, cmp.Completion)

	err = cmp.Transition(StatusCompleted, &CompletionDetails{ExpectedReach: 0, Outcomes: "great numbers overall"})
	require.Equal(t, ErrBadReach, err)
	assert.Equal(t, StatusApproved, cmp.Status)

	err = cmp.Transition(StatusCompleted, &CompletionDetails{ExpectedReach: 5000, Outcomes: "short"})
	require.Equal(t, ErrShortOutcomes, err)
	assert.Equal(t, StatusApproved, cmp.Status)
	assert.Nil(t, cmp.Completion)

	cd := &CompletionDetails{ExpectedReach: 5000, Outcomes: "reach target exceeded by 20%"}
	require.NoError(t, cmp.Transition(StatusCompleted, cd))
	assert.Equal(t, StatusCompleted, cmp.Status)
	assert.Equal(t, cd, cmp.Completion)
}

func TestTransitionFromPending(t *testing.T) {
	cmp := &Campaign{Id: "1", Name: "Launch", Status: StatusPending}
	require.Equal(t, ErrBadTransition, cmp.Transition(StatusCompleted, &CompletionDetails{ExpectedReach: 1, Outcomes: "good enough outcome"}))
	assert.Equal(t, StatusPending, cmp.Status)

	require.NoError(t, cmp.Transition(StatusApproved, nil))
	assert.Equal(t, StatusApproved, cmp.Status)
}

func TestTransitionRejectedIsTerminal(t *testing.T) {
	cmp := &Campaign{Id: "1", Name: "Launch", Status: StatusPending}
	require.NoError(t, cmp.Transition(StatusRejected, nil))

	for _, to := range []Status{StatusPending, StatusApproved, StatusCompleted} {
		assert.Equal(t, ErrBadTransition, cmp.Transition(to, nil))
	}
	assert.Equal(t, StatusRejected, cmp.Status)
}

func TestCampaignCheck(t *testing.T) {
	cmp := &Campaign{Name: "  Launch ", Department: DeptMarketing, PricePaid: 100}
	require.NoError(t, cmp.Check(true))
	assert.Equal(t, "Launch", cmp.Name)

	assert.Equal(t, ErrBadCampaignId, (&Campaign{Id: "9", Name: "x", Department: DeptSales, PricePaid: 1}).Check(true))
	assert.Equal(t, ErrNoName, (&Campaign{Department: DeptSales, PricePaid: 1}).Check(true))
	assert.Equal(t, ErrBadDepartment, (&Campaign{Name: "x", Department: "HR", PricePaid: 1}).Check(true))
	assert.Equal(t, ErrBadPrice, (&Campaign{Name: "x", Department: DeptSales, PricePaid: -5}).Check(true))
	assert.Equal(t, ErrBadPrice, (&Campaign{Name: "x", Department: DeptSales}).Check(true))
}

func TestCompletionDetailsCheck(t *testing.T) {
	assert.Equal(t, ErrBadReach, (&CompletionDetails{Outcomes: "plenty of outcomes here"}).Check())
	assert.Equal(t, ErrShortOutcomes, (&CompletionDetails{ExpectedReach: 10, Outcomes: "   tiny    "}).Check())
	assert.NoError(t, (&CompletionDetails{ExpectedReach: 10, Outcomes: "exceeded all targets"}).Check())
}
