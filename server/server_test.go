package server

import (
	"testing"

	"github.com/swayops/resty"

	"github.com/nxthub/influencewise/internal/auth"
	"github.com/nxthub/influencewise/misc"
)

var adminReq = M{"email": "admin@nxthub.test", "pass": defaultPass}

func newInfluencerReq(name, category, language, handle string) M {
	return M{
		"name":     name,
		"category": category,
		"language": language,
		"mobile":   "+5511999990000",
		"legalId":  name + " Legal",
		"platforms": []M{
			{"kind": "youtube", "handle": handle},
		},
	}
}

func newCampaignReq(name, influencerId string, price float64) M {
	return M{
		"name":         name,
		"department":   "MKT",
		"deliverables": "3 posts, 1 video",
		"date":         "2026-09-01",
		"pricePaid":    price,
		"influencerId": influencerId,
	}
}

func TestAdminLogin(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	for _, tr := range [...]*resty.TestRequest{
		{Method: "GET", Path: "/me", Data: nil, ExpectedStatus: 401, ExpectedData: nil},
		{Method: "POST", Path: "/signIn", Data: M{"email": "admin@nxthub.test", "pass": "wrong-pass"}, ExpectedStatus: 401, ExpectedData: nil},
		{Method: "POST", Path: "/signIn", Data: adminReq, ExpectedStatus: 200, ExpectedData: misc.StatusOK("1")},
		{Method: "GET", Path: "/me", Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"email":"admin@nxthub.test"`)},
		{Method: "GET", Path: "/me", Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"role":"admin"`)},
	} {
		tr.Run(t, rst)
	}
}

func TestSignOut(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/signIn", Data: adminReq, ExpectedStatus: 200, ExpectedData: misc.StatusOK("1")},
		{Method: "GET", Path: "/me", Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/signOut", Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "GET", Path: "/me", Data: nil, ExpectedStatus: 401, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}
}

func TestUserApprovalFlow(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	mgr := getSignupUser(auth.InvalidScope)
	rejected := getSignupUser(auth.InvalidScope)

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/signUp", Data: mgr, ExpectedStatus: 200, ExpectedData: misc.StatusOK(mgr.ExpID)},
		{Method: "POST", Path: "/signUp", Data: rejected, ExpectedStatus: 200, ExpectedData: misc.StatusOK(rejected.ExpID)},

		// duplicate email
		{Method: "POST", Path: "/signUp", Data: mgr, ExpectedStatus: 400, ExpectedData: nil},

		// sign-in is refused until an admin approves the account
		{Method: "POST", Path: "/signIn", Data: M{"email": mgr.Email, "pass": defaultPass}, ExpectedStatus: 401, ExpectedData: nil},

		{Method: "POST", Path: "/signIn", Data: adminReq, ExpectedStatus: 200, ExpectedData: misc.StatusOK("1")},
		{Method: "GET", Path: "/users/pending", Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"id":"` + mgr.ExpID + `"`)},

		{Method: "PUT", Path: "/users/pending/" + mgr.ExpID + "/approve", Data: nil, ExpectedStatus: 200, ExpectedData: misc.StatusOK(mgr.ExpID)},
		// the pending entry is consumed by the approval
		{Method: "PUT", Path: "/users/pending/" + mgr.ExpID + "/approve", Data: nil, ExpectedStatus: 404, ExpectedData: nil},

		{Method: "POST", Path: "/signIn", Data: M{"email": mgr.Email, "pass": defaultPass}, ExpectedStatus: 200, ExpectedData: misc.StatusOK(mgr.ExpID)},
		{Method: "GET", Path: "/me", Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"role":"manager"`)},

		// rejection destroys the account; there is no way back
		{Method: "POST", Path: "/signIn", Data: adminReq, ExpectedStatus: 200, ExpectedData: misc.StatusOK("1")},
		{Method: "PUT", Path: "/users/pending/" + rejected.ExpID + "/reject", Data: nil, ExpectedStatus: 200, ExpectedData: misc.StatusOK(rejected.ExpID)},
		{Method: "PUT", Path: "/users/pending/" + rejected.ExpID + "/approve", Data: nil, ExpectedStatus: 404, ExpectedData: nil},
		{Method: "POST", Path: "/signIn", Data: M{"email": rejected.Email, "pass": defaultPass}, ExpectedStatus: 401, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}
}

func TestRoleGating(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	mgr := getSignupUser(auth.ManagerScope)
	exec := getSignupUser(auth.ExecutiveScope)

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/signUp", Data: mgr, ExpectedStatus: 200, ExpectedData: misc.StatusOK(mgr.ExpID)},
		{Method: "POST", Path: "/signUp", Data: exec, ExpectedStatus: 200, ExpectedData: misc.StatusOK(exec.ExpID)},
		{Method: "POST", Path: "/signIn", Data: adminReq, ExpectedStatus: 200, ExpectedData: misc.StatusOK("1")},
		{Method: "PUT", Path: "/users/pending/" + mgr.ExpID + "/approve", Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "PUT", Path: "/users/pending/" + exec.ExpID + "/approve", Data: nil, ExpectedStatus: 200, ExpectedData: nil},

		// managers read and write records but cannot review or administer
		{Method: "POST", Path: "/signIn", Data: M{"email": mgr.Email, "pass": defaultPass}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "GET", Path: "/campaigns", Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "PUT", Path: "/campaigns/999/approve", Data: nil, ExpectedStatus: 401, ExpectedData: nil},
		{Method: "GET", Path: "/users", Data: nil, ExpectedStatus: 401, ExpectedData: nil},
		{Method: "GET", Path: "/users/pending", Data: nil, ExpectedStatus: 401, ExpectedData: nil},

		// executives review but are not admins
		{Method: "POST", Path: "/signIn", Data: M{"email": exec.Email, "pass": defaultPass}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "GET", Path: "/me", Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"role":"executive"`)},
		{Method: "PUT", Path: "/campaigns/999/approve", Data: nil, ExpectedStatus: 404, ExpectedData: nil}, // past the gate, no such campaign
		{Method: "GET", Path: "/users", Data: nil, ExpectedStatus: 401, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}
}

func TestInfluencerFlow(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/signIn", Data: adminReq, ExpectedStatus: 200, ExpectedData: misc.StatusOK("1")},

		// inline validation failures name the offending fields
		{Method: "POST", Path: "/influencers", Data: M{"name": ""}, ExpectedStatus: 400, ExpectedData: nil},
		{Method: "POST", Path: "/influencers", Data: newInfluencerReq("Maria Silva", "beauty", "pt", "mariasilva"), ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/influencers", Data: newInfluencerReq("Tom Tech", "tech", "en", "tomtech"), ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	waitForCount(t, rst, "/influencers", 2)

	var infs []M
	if r := rst.DoTesting(t, "GET", "/influencers?q=maria", nil, &infs); r.Status != 200 {
		t.Fatal("Bad status code!")
	}
	if len(infs) != 1 || infs[0]["name"] != "Maria Silva" {
		t.Fatalf("bad search result: %+v", infs)
	}
	infId, _ := infs[0]["id"].(string)
	if infId == "" {
		t.Fatal("missing influencer id")
	}

	// facet values come from the full set
	var facets M
	if r := rst.DoTesting(t, "GET", "/influencers/facets", nil, &facets); r.Status != 200 {
		t.Fatal("Bad status code!")
	}
	if cats, _ := facets["categories"].([]interface{}); len(cats) != 2 {
		t.Fatalf("bad facet values: %+v", facets)
	}

	for _, tr := range [...]*resty.TestRequest{
		{Method: "GET", Path: "/influencers?category=tech", Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"name":"Tom Tech"`)},
		{Method: "GET", Path: "/influencers/" + infId, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"name":"Maria Silva"`)},
		{Method: "DELETE", Path: "/influencers/" + infId, Data: nil, ExpectedStatus: 200, ExpectedData: misc.StatusOK(infId)},
		{Method: "DELETE", Path: "/influencers/" + infId, Data: nil, ExpectedStatus: 404, ExpectedData: nil},
		{Method: "GET", Path: "/influencers/" + infId, Data: nil, ExpectedStatus: 404, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	waitForCount(t, rst, "/influencers?q=maria", 0)
}

func TestCampaignLifecycle(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	var st misc.Status
	rst.DoTesting(t, "POST", "/signIn", adminReq, &st)

	if r := rst.DoTesting(t, "POST", "/influencers", newInfluencerReq("Lia Reyes", "food", "es", "liareyes"), &st); r.Status != 200 {
		t.Fatal("Bad status code!")
	}
	infId := st.Id
	waitForCount(t, rst, "/influencers?q=liareyes", 1)

	if r := rst.DoTesting(t, "POST", "/campaigns", newCampaignReq("Spring Push", infId, 1200), &st); r.Status != 200 {
		t.Fatal("Bad status code!")
	}
	cmpId := st.Id
	waitForCount(t, rst, "/campaigns?q=spring", 1)

	completion := M{"expectedReach": 50000, "outcomes": "reach target exceeded by 20%"}

	for _, tr := range [...]*resty.TestRequest{
		// a new campaign always starts out pending with the influencer resolved
		{Method: "GET", Path: "/campaigns/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"approvalStatus":"pending"`)},
		{Method: "GET", Path: "/campaigns/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"influencerName":"Lia Reyes"`)},

		// completion requires the approved state
		{Method: "PUT", Path: "/campaigns/" + cmpId + "/complete", Data: completion, ExpectedStatus: 400, ExpectedData: nil},

		{Method: "PUT", Path: "/campaigns/" + cmpId + "/approve", Data: nil, ExpectedStatus: 200, ExpectedData: misc.StatusOK(cmpId)},
		{Method: "PUT", Path: "/campaigns/" + cmpId + "/approve", Data: nil, ExpectedStatus: 400, ExpectedData: nil},
		{Method: "PUT", Path: "/campaigns/" + cmpId + "/reject", Data: nil, ExpectedStatus: 400, ExpectedData: nil},

		// completion details must validate before the status moves
		{Method: "PUT", Path: "/campaigns/" + cmpId + "/complete", Data: M{"expectedReach": 0, "outcomes": "short"}, ExpectedStatus: 400, ExpectedData: nil},
		{Method: "GET", Path: "/campaigns/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"approvalStatus":"approved"`)},

		{Method: "PUT", Path: "/campaigns/" + cmpId + "/complete", Data: completion, ExpectedStatus: 200, ExpectedData: misc.StatusOK(cmpId)},
		{Method: "GET", Path: "/campaigns/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"approvalStatus":"completed"`)},
		{Method: "GET", Path: "/campaigns/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"expectedReach":50000`)},

		// completed is terminal
		{Method: "PUT", Path: "/campaigns/" + cmpId + "/approve", Data: nil, ExpectedStatus: 400, ExpectedData: nil},
		{Method: "PUT", Path: "/campaigns/" + cmpId + "/complete", Data: completion, ExpectedStatus: 400, ExpectedData: nil},

		{Method: "PUT", Path: "/campaigns/404/approve", Data: nil, ExpectedStatus: 404, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	// a rejected campaign never comes back
	if r := rst.DoTesting(t, "POST", "/campaigns", newCampaignReq("Doomed", "", 300), &st); r.Status != 200 {
		t.Fatal("Bad status code!")
	}
	for _, tr := range [...]*resty.TestRequest{
		{Method: "PUT", Path: "/campaigns/" + st.Id + "/reject", Data: nil, ExpectedStatus: 200, ExpectedData: misc.StatusOK(st.Id)},
		{Method: "PUT", Path: "/campaigns/" + st.Id + "/approve", Data: nil, ExpectedStatus: 400, ExpectedData: nil},
		{Method: "GET", Path: "/campaigns/" + st.Id, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"influencerName":"N/A"`)},
	} {
		tr.Run(t, rst)
	}

	// deleting the influencer leaves the campaign rendering with N/A
	rst.DoTesting(t, "DELETE", "/influencers/"+infId, nil, &st)
	waitForCount(t, rst, "/influencers?q=liareyes", 0)

	tr := &resty.TestRequest{Method: "GET", Path: "/campaigns/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"influencerName":"N/A"`)}
	tr.Run(t, rst)
}

func TestAdvisoryWithoutKey(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	dupReq := M{
		"mobileNumber": "+5511999990000",
		"legalName":    "Maria Silva Legal",
		"channelLink":  "https://youtube.com/@mariasilva",
	}

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/signIn", Data: adminReq, ExpectedStatus: 200, ExpectedData: misc.StatusOK("1")},

		// no API key configured: every check degrades to no advisory
		{Method: "POST", Path: "/advisory/duplicate", Data: dupReq, ExpectedStatus: 200, ExpectedData: M{"advisory": nil}},
		{Method: "POST", Path: "/advisory/price", Data: M{"influencerId": "1", "proposedPrice": 9000}, ExpectedStatus: 200, ExpectedData: M{"advisory": nil}},
	} {
		tr.Run(t, rst)
	}
}

func TestInfluencerDraftFlow(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	var st misc.Status
	rst.DoTesting(t, "POST", "/signIn", adminReq, &st)

	if r := rst.DoTesting(t, "POST", "/drafts/influencer", nil, &st); r.Status != 200 {
		t.Fatal("Bad status code!")
	}
	draftId := st.Id
	if draftId == "" {
		t.Fatal("missing draft id")
	}

	incomplete := M{"name": "Draft Person"}
	complete := newInfluencerReq("Draft Person", "beauty", "en", "draftperson")

	for _, tr := range [...]*resty.TestRequest{
		// edits are always accepted; validation happens on submit
		{Method: "PUT", Path: "/drafts/influencer/" + draftId, Data: incomplete, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "GET", Path: "/drafts/influencer/" + draftId + "/advisory", Data: nil, ExpectedStatus: 200, ExpectedData: M{"advisory": nil}},
		{Method: "POST", Path: "/drafts/influencer/" + draftId + "/submit", Data: nil, ExpectedStatus: 400, ExpectedData: resty.PartialMatch(`"mobile"`)},

		// the draft survived the failed submit
		{Method: "PUT", Path: "/drafts/influencer/" + draftId, Data: complete, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	if r := rst.DoTesting(t, "POST", "/drafts/influencer/"+draftId+"/submit", nil, &st); r.Status != 200 {
		t.Fatal("Bad status code!")
	}

	for _, tr := range [...]*resty.TestRequest{
		{Method: "GET", Path: "/influencers/" + st.Id, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"name":"Draft Person"`)},

		// the draft is gone after a successful submit; closing again is fine
		{Method: "POST", Path: "/drafts/influencer/" + draftId + "/submit", Data: nil, ExpectedStatus: 404, ExpectedData: nil},
		{Method: "DELETE", Path: "/drafts/influencer/" + draftId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}
}

func TestCampaignDraftFlow(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	var st misc.Status
	rst.DoTesting(t, "POST", "/signIn", adminReq, &st)

	if r := rst.DoTesting(t, "POST", "/drafts/campaign", nil, &st); r.Status != 200 {
		t.Fatal("Bad status code!")
	}
	draftId := st.Id

	draft := newCampaignReq("Drafted Push", "", 800)
	draft["approvalStatus"] = "approved" // ignored; campaigns enter pending

	for _, tr := range [...]*resty.TestRequest{
		{Method: "PUT", Path: "/drafts/campaign/" + draftId, Data: M{"name": "Drafted Push"}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/drafts/campaign/" + draftId + "/submit", Data: nil, ExpectedStatus: 400, ExpectedData: resty.PartialMatch(`"pricePaid"`)},
		{Method: "PUT", Path: "/drafts/campaign/" + draftId, Data: draft, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	if r := rst.DoTesting(t, "POST", "/drafts/campaign/"+draftId+"/submit", nil, &st); r.Status != 200 {
		t.Fatal("Bad status code!")
	}

	tr := &resty.TestRequest{Method: "GET", Path: "/campaigns/" + st.Id, Data: nil, ExpectedStatus: 200, ExpectedData: resty.PartialMatch(`"approvalStatus":"pending"`)}
	tr.Run(t, rst)
}
