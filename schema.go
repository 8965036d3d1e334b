package proposalpdf

import (
	"strconv"
	"strings"
	"time"
)

// TemplateStyle selects one of the two visual template families.
type TemplateStyle string

const (
	StyleA TemplateStyle = "a"
	StyleB TemplateStyle = "b"
)

// normalized maps unknown styles onto StyleA.
func (s TemplateStyle) normalized() TemplateStyle {
	if s == StyleB {
		return StyleB
	}
	return StyleA
}

// Amount is a price, quantity or rate field. It unmarshals from a JSON
// number or string; anything that fails to coerce becomes 0 rather than
// aborting the document.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// ImageSource is a raster handle: a resolved file path, or bytes already
// fetched by the storage collaborator. The engine itself never performs
// network fetches.
type ImageSource struct {
	Path string `json:"path,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// Empty reports whether the source points at nothing.
func (s ImageSource) Empty() bool { return s.Path == "" && len(s.Data) == 0 }

// SectionKind tags the Section union.
type SectionKind string

const (
	SectionText   SectionKind = "text"
	SectionImages SectionKind = "images"
)

// Section is one free-form content section. Kind selects which of Body or
// Images is meaningful. Order within the document is significant and
// preserved.
type Section struct {
	Kind   SectionKind `json:"kind"`
	Title  string      `json:"title,omitempty"`
	Body   string      `json:"body,omitempty"`
	Images []ImageItem `json:"images,omitempty"`
}

// ImageItem is one gallery entry; captions longer than 90 characters are
// truncated at render time.
type ImageItem struct {
	Source  ImageSource `json:"source"`
	Caption string      `json:"caption,omitempty"`
}

// AdditionalCost is one line of an itemized cost list.
type AdditionalCost struct {
	Label     string      `json:"label"`
	UnitPrice Amount      `json:"unitPrice"`
	Quantity  Amount      `json:"quantity,omitempty"`
	PST       bool        `json:"pst,omitempty"`
	GST       bool        `json:"gst,omitempty"`
	ShowImage bool        `json:"showImage,omitempty"`
	Image     ImageSource `json:"image,omitempty"`
}

// PricingSection is one numbered pricing table with section-local tax
// configuration. Precomputed totals, when supplied by the caller, win over
// recomputation from the items.
type PricingSection struct {
	Index     int              `json:"index"`
	Items     []AdditionalCost `json:"items"`
	PSTRate   Amount           `json:"pstRate,omitempty"`
	GSTRate   Amount           `json:"gstRate,omitempty"`
	ShowPST   bool             `json:"showPst,omitempty"`
	ShowGST   bool             `json:"showGst,omitempty"`
	ShowTotal bool             `json:"showTotal,omitempty"`
	PST       *Amount          `json:"pstTotal,omitempty"`
	GST       *Amount          `json:"gstTotal,omitempty"`
	Total     *Amount          `json:"total,omitempty"`
}

// EstimateConfig is the simplified bid-price mode: no line items, just a bid
// price with optional flat GST and TOTAL lines.
type EstimateConfig struct {
	BidPrice  Amount `json:"bidPrice"`
	GSTValue  Amount `json:"gstValue,omitempty"`
	Total     Amount `json:"total,omitempty"`
	ShowGST   bool   `json:"showGstInPdf,omitempty"`
	ShowTotal bool   `json:"showTotalInPdf,omitempty"`
}

// PricingConfig selects one of three pricing presentations, checked in
// order: Estimate, Sections, then the legacy single cost list.
type PricingConfig struct {
	Estimate *EstimateConfig  `json:"estimate,omitempty"`
	Sections []PricingSection `json:"sections,omitempty"`
	Costs    []AdditionalCost `json:"costs,omitempty"`

	// Flags and rates for the legacy cost list.
	PSTRate   Amount `json:"pstRate,omitempty"`
	GSTRate   Amount `json:"gstRate,omitempty"`
	ShowPST   bool   `json:"showPst,omitempty"`
	ShowGST   bool   `json:"showGst,omitempty"`
	ShowTotal bool   `json:"showTotal,omitempty"`
}

// Empty reports whether no pricing presentation is configured.
func (p PricingConfig) Empty() bool {
	return p.Estimate == nil && len(p.Sections) == 0 && len(p.Costs) == 0
}

// OptionalService is one add-on offering.
type OptionalService struct {
	Name  string `json:"name"`
	Price Amount `json:"price"`
}

// DetailRow is one label/value pair on the info page or quote header.
type DetailRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ContactBlock identifies the person the proposal is addressed by.
type ContactBlock struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// String renders the contact as a single display line.
func (c ContactBlock) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Phone, c.Email} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "  |  ")
}

// ProposalDocument is the root input for one generation call. It is treated
// as immutable for the duration of the call.
type ProposalDocument struct {
	Style          TemplateStyle `json:"style,omitempty"`
	IsQuote        bool          `json:"isQuote,omitempty"`
	Title          string        `json:"title"`
	OrderNumber    string        `json:"orderNumber,omitempty"`
	CompanyName    string        `json:"companyName,omitempty"`
	CompanyAddress string        `json:"companyAddress,omitempty"`
	Contact        ContactBlock  `json:"contact,omitempty"`
	IssueDate      time.Time     `json:"issueDate,omitempty"`

	Sections []Section     `json:"sections,omitempty"`
	Pricing  PricingConfig `json:"pricing,omitempty"`
	Optional []OptionalService `json:"optionalServices,omitempty"`
	Terms    string        `json:"terms,omitempty"`

	// Info-page detail rows (proposals) and quote-header rows (quotes).
	GeneralDetails []DetailRow `json:"generalDetails,omitempty"`
	ProjectDetails []DetailRow `json:"projectDetails,omitempty"`

	CoverImage     ImageSource `json:"coverImage,omitempty"`
	SecondaryImage ImageSource `json:"secondaryImage,omitempty"`
	LogoPath       string      `json:"logoPath,omitempty"`
}
