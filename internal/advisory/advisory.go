// Package advisory asks a hosted model for non-blocking hints while the
// user is still filling in a form: is this influencer already in the
// system, and is this campaign price out of line with history. Advisories
// never gate submission; a failed check degrades to "no advisory".
package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

type Client struct {
	gc    *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("advisory API key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create advisory client: %w", err)
	}
	return &Client{gc: gc, model: model}, nil
}

// DuplicateFields are the watched fields of the add-influencer dialog.
type DuplicateFields struct {
	MobileNumber string `json:"mobileNumber"`
	LegalName    string `json:"legalName"`
	ChannelLink  string `json:"channelLink"`
}

func (f DuplicateFields) Valid() bool {
	return f.MobileNumber != "" && f.LegalName != "" && f.ChannelLink != ""
}

type DuplicateAdvisory struct {
	IsDuplicate         bool     `json:"isDuplicate"`
	Confidence          float64  `json:"confidence"` // 0..1
	PotentialDuplicates []string `json:"potentialDuplicates,omitempty"`
}

// PriceFields are the watched fields of the log-campaign dialog. The
// benchmarks come from the influencer's promotion history, not user input.
type PriceFields struct {
	InfluencerName string    `json:"influencerName"`
	ProposedPrice  float64   `json:"proposedPrice"`
	Benchmarks     []float64 `json:"previousPriceBenchmarks"`
}

func (f PriceFields) Valid() bool {
	return f.InfluencerName != "" &&
		f.ProposedPrice > 0 && !math.IsInf(f.ProposedPrice, 0) && !math.IsNaN(f.ProposedPrice)
}

type PriceAdvisory struct {
	IsPriceTooHigh bool   `json:"isPriceTooHigh"`
	Explanation    string `json:"explanation"`
}

const duplicatePrompt = `You are helping an influencer marketing team spot duplicate profiles.
A new influencer profile is being added with these identifying fields:

mobile number: %s
legal name: %s
channel link: %s

Existing profiles are listed below as "id | legal name | mobile | channel":
%s

Decide whether the new profile likely duplicates an existing one. Respond
with JSON only: {"isDuplicate": bool, "confidence": number between 0 and 1,
"potentialDuplicates": [ids of likely matches]}.`

const pricePrompt = `You are helping an influencer marketing team sanity check a campaign price.
Influencer: %s
Proposed price: %.2f
Previous prices paid to this influencer: %s

Decide whether the proposed price is anomalously high relative to the
history. Respond with JSON only:
{"isPriceTooHigh": bool, "explanation": "one short sentence"}.`

// KnownProfile is the benchmark row fed into the duplicate prompt.
type KnownProfile struct {
	Id          string
	LegalName   string
	Mobile      string
	ChannelLink string
}

func (c *Client) CheckDuplicate(ctx context.Context, f DuplicateFields, known []KnownProfile) (*DuplicateAdvisory, error) {
	var sb strings.Builder
	for _, p := range known {
		fmt.Fprintf(&sb, "%s | %s | %s | %s\n", p.Id, p.LegalName, p.Mobile, p.ChannelLink)
	}
	prompt := fmt.Sprintf(duplicatePrompt, f.MobileNumber, f.LegalName, f.ChannelLink, sb.String())

	var out DuplicateAdvisory
	if err := c.generate(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if out.Confidence < 0 {
		out.Confidence = 0
	} else if out.Confidence > 1 {
		out.Confidence = 1
	}
	return &out, nil
}

func (c *Client) CheckPrice(ctx context.Context, f PriceFields) (*PriceAdvisory, error) {
	marks := make([]string, 0, len(f.Benchmarks))
	for _, b := range f.Benchmarks {
		marks = append(marks, fmt.Sprintf("%.2f", b))
	}
	bench := strings.Join(marks, ", ")
	if bench == "" {
		bench = "none on record"
	}
	prompt := fmt.Sprintf(pricePrompt, f.InfluencerName, f.ProposedPrice, bench)

	var out PriceAdvisory
	if err := c.generate(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) generate(ctx context.Context, prompt string, out interface{}) error {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := c.gc.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("advisory generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return fmt.Errorf("empty advisory response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("bad advisory response %q: %w", text, err)
	}
	return nil
}
