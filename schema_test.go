package proposalpdf_test

import (
	"encoding/json"
	"testing"

	"github.com/MackKirk/proposalpdf"
)

func TestAmountUnmarshalTolerant(t *testing.T) {
	cases := map[string]float64{
		`42`:          42,
		`42.5`:        42.5,
		`"42.5"`:      42.5,
		`"1,250.75"`:  1250.75,
		`""`:          0,
		`null`:        0,
		`"abc"`:       0,
		`"12 dollar"`: 0,
	}
	for in, want := range cases {
		var a proposalpdf.Amount
		if err := json.Unmarshal([]byte(in), &a); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", in, err)
			continue
		}
		if float64(a) != want {
			t.Errorf("Unmarshal(%s) = %v, want %v", in, a, want)
		}
	}
}

func TestDocumentUnmarshal(t *testing.T) {
	raw := `{
		"isQuote": true,
		"title": "Roof Replacement",
		"orderNumber": "SO-1042",
		"companyName": "Northgate Properties",
		"contact": {"name": "Dana Reyes", "email": "dana@example.com"},
		"sections": [
			{"kind": "text", "title": "Scope of Work", "body": "Remove and replace."},
			{"kind": "images", "title": "Site Photos", "images": [
				{"source": {"path": "/tmp/a.jpg"}, "caption": "North elevation"}
			]}
		],
		"pricing": {
			"estimate": {"bidPrice": "12,500", "gstValue": 625, "total": 13125,
				"showGstInPdf": true, "showTotalInPdf": true}
		},
		"optionalServices": [{"name": "Maintenance", "price": "450"}],
		"terms": "Net 30."
	}`

	var doc proposalpdf.ProposalDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatal(err)
	}

	if !doc.IsQuote || doc.Title != "Roof Replacement" {
		t.Errorf("header fields wrong: %+v", doc)
	}
	if len(doc.Sections) != 2 || doc.Sections[1].Kind != proposalpdf.SectionImages {
		t.Errorf("sections wrong: %+v", doc.Sections)
	}
	e := doc.Pricing.Estimate
	if e == nil {
		t.Fatal("estimate pricing not decoded")
	}
	if float64(e.BidPrice) != 12500 || !e.ShowGST || !e.ShowTotal {
		t.Errorf("estimate wrong: %+v", e)
	}
	if len(doc.Optional) != 1 || float64(doc.Optional[0].Price) != 450 {
		t.Errorf("optional services wrong: %+v", doc.Optional)
	}
}

func TestPricingConfigEmpty(t *testing.T) {
	if !(proposalpdf.PricingConfig{}).Empty() {
		t.Error("zero config should be empty")
	}
	with := proposalpdf.PricingConfig{Costs: []proposalpdf.AdditionalCost{{Label: "x"}}}
	if with.Empty() {
		t.Error("config with costs should not be empty")
	}
	est := proposalpdf.PricingConfig{Estimate: &proposalpdf.EstimateConfig{BidPrice: 1}}
	if est.Empty() {
		t.Error("config with estimate should not be empty")
	}
}

func TestContactBlockString(t *testing.T) {
	cases := []struct {
		in   proposalpdf.ContactBlock
		want string
	}{
		{proposalpdf.ContactBlock{}, ""},
		{proposalpdf.ContactBlock{Name: "Dana Reyes"}, "Dana Reyes"},
		{
			proposalpdf.ContactBlock{Name: "Dana Reyes", Phone: "604-555-0101", Email: "dana@example.com"},
			"Dana Reyes  |  604-555-0101  |  dana@example.com",
		},
		{proposalpdf.ContactBlock{Email: "dana@example.com"}, "dana@example.com"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("String(%+v) = %q, want %q", c.in, got, c.want)
		}
	}
}
