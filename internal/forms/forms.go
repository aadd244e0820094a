// Package forms owns the transient draft state behind the dashboard
// dialogs: add influencer, log campaign and complete campaign. A dialog
// validates its draft, keeps the advisory pipeline fed while the user
// types, and only touches the record store on a clean submit.
package forms

import (
	"net/url"
	"sort"
	"strings"

	"github.com/nxthub/influencewise/internal/common"
)

// FieldErrors maps field names to their inline validation messages. It
// satisfies error so a failed submit can be returned directly.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) add(field, msg string) FieldErrors {
	if fe == nil {
		fe = make(FieldErrors)
	}
	fe[field] = msg
	return fe
}

func validEmail(email string) bool {
	return len(email) >= 6 && strings.Count(email, "@") == 1 && strings.Contains(email, ".")
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateInfluencer checks an add-influencer draft. The advisory result
// is deliberately not consulted: a suspected duplicate warns, it never
// blocks.
func ValidateInfluencer(inf *common.Influencer) FieldErrors {
	var fe FieldErrors
	if strings.TrimSpace(inf.Name) == "" {
		fe = fe.add("name", "name is required")
	}
	if len(inf.Platforms) == 0 {
		fe = fe.add("platforms", "at least one platform is required")
	}
	for i := range inf.Platforms {
		if err := inf.Platforms[i].Check(); err != nil {
			fe = fe.add("platforms", err.Error())
			break
		}
	}
	if inf.Email != "" && !validEmail(inf.Email) {
		fe = fe.add("email", "invalid email address")
	}
	if inf.Mobile == "" {
		fe = fe.add("mobile", "mobile number is required")
	}
	if inf.LegalId == "" {
		fe = fe.add("legalId", "legal identifier is required")
	}
	if inf.Avatar != "" && !validURL(inf.Avatar) {
		fe = fe.add("avatar", "avatar must be a valid http(s) URL")
	}
	if inf.LastPricePaid < 0 {
		fe = fe.add("lastPricePaid", "price must be a positive number")
	}
	return fe
}

// ValidateCampaign checks a log-campaign draft. The influencer reference
// is optional; when present it is a weak reference only.
func ValidateCampaign(cmp *common.Campaign) FieldErrors {
	var fe FieldErrors
	if strings.TrimSpace(cmp.Name) == "" {
		fe = fe.add("name", "name is required")
	}
	if !common.ValidDepartment(cmp.Department) {
		fe = fe.add("department", "invalid department code")
	}
	if strings.TrimSpace(cmp.Deliverables) == "" {
		fe = fe.add("deliverables", "deliverables are required")
	}
	if cmp.Date == "" {
		fe = fe.add("date", "date is required")
	}
	if cmp.PricePaid <= 0 {
		fe = fe.add("pricePaid", "price must be a positive number")
	}
	return fe
}

// ValidateCompletion checks the complete-campaign draft; it mirrors the
// atomic requirements of the Approved -> Completed transition.
func ValidateCompletion(cd *common.CompletionDetails) FieldErrors {
	var fe FieldErrors
	if cd.ExpectedReach <= 0 {
		fe = fe.add("expectedReach", "expected reach must be a positive number")
	}
	if len(strings.TrimSpace(cd.Outcomes)) < common.MinOutcomesLen {
		fe = fe.add("outcomes", "outcomes must describe the campaign in more detail")
	}
	return fe
}
