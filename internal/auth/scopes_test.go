package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeValid(t *testing.T) {
	assert.True(t, AdminScope.Valid())
	assert.True(t, ExecutiveScope.Valid())
	assert.True(t, ManagerScope.Valid())
	assert.False(t, InvalidScope.Valid())
	assert.False(t, Scope("root").Valid())
	assert.False(t, AllScopes.Valid())
}

func TestCanReview(t *testing.T) {
	assert.True(t, ExecutiveScope.CanReview())
	assert.True(t, AdminScope.CanReview())
	assert.False(t, ManagerScope.CanReview())
	assert.False(t, InvalidScope.CanReview())
}

func TestScopeMapHasAccess(t *testing.T) {
	sm := ScopeMap{
		AllScopes:      {Get: true},
		ExecutiveScope: {Get: true, Put: true},
	}

	// the catch-all entry grants reads to every role
	assert.True(t, sm.HasAccess(ManagerScope, "GET"))
	assert.True(t, sm.HasAccess(ExecutiveScope, "GET"))

	assert.True(t, sm.HasAccess(ExecutiveScope, "PUT"))
	assert.False(t, sm.HasAccess(ManagerScope, "PUT"))
	assert.False(t, sm.HasAccess(ManagerScope, "DELETE"))

	// admins pass every check, even with an empty map
	assert.True(t, sm.HasAccess(AdminScope, "DELETE"))
	assert.True(t, ScopeMap{}.HasAccess(AdminScope, "PUT"))
	assert.False(t, ScopeMap{}.HasAccess(ExecutiveScope, "GET"))

	var nilMap ScopeMap
	assert.True(t, nilMap.HasAccess(AdminScope, "GET"))
	assert.False(t, nilMap.HasAccess(ManagerScope, "GET"))
}
