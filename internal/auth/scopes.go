package auth

type Scope string

const (
	AllScopes Scope = `*` // this is a special catch-all case for matching

	InvalidScope   Scope = ""
	AdminScope     Scope = `admin`
	ExecutiveScope Scope = `executive`
	ManagerScope   Scope = `manager`
)

// DefaultScope is what untrusted presentation hints fall back to; it is
// the lowest-privilege dashboard role.
const DefaultScope = ManagerScope

func (s Scope) IsOneOf(os ...Scope) bool {
	for _, o := range os {
		if s == o {
			return true
		}
	}
	return false
}

func (s Scope) Valid() bool {
	switch s {
	case AdminScope, ExecutiveScope, ManagerScope:
		return true
	}
	return false
}

// CanReview returns true if the scope carries campaign review authority
// (the Pending -> Approved/Rejected transitions).
func (s Scope) CanReview() bool {
	return s == ExecutiveScope || s == AdminScope
}

type ScopeMap map[Scope]struct{ Get, Put, Post, Delete bool }

func (sm ScopeMap) HasAccess(scope Scope, method string) bool {
	if scope == AdminScope {
		return true
	} else if sm == nil {
		return false
	}

	var v bool
	if m, ok := sm[scope]; ok {
		switch method {
		case "HEAD", "GET":
			v = m.Get
		case "PUT":
			v = m.Put
		case "POST":
			v = m.Post
		case "DELETE":
			v = m.Delete
		}
	}
	if !v && scope != AllScopes {
		v = sm.HasAccess(AllScopes, method)
	}
	return v
}
