package issues

import (
	"fmt"
	"strings"
	"time"

	"vidcat/internal/services"
)

// Kind is the type of submission.
type Kind string

const (
	KindBroken       Kind = "broken"
	KindContribution Kind = "contribution"
	KindEdit         Kind = "edit"
)

// ParseKind resolves a submission kind.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case KindBroken, KindContribution, KindEdit:
		return k, nil
	default:
		return "", services.Wrap(services.ErrValidation, "issues", "parse kind", fmt.Sprintf("unknown issue type %q", name), nil)
	}
}

// Submission is what a user sends from the portal.
type Submission struct {
	Kind        Kind   `json:"kind"`
	AssetURL    string `json:"assetUrl"`
	AssetTitle  string `json:"assetTitle"`
	Description string `json:"description"`
	UserEmail   string `json:"userEmail,omitempty"`
}

// Validate checks the required fields.
func (s Submission) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	var missing []string
	if strings.TrimSpace(s.AssetURL) == "" {
		missing = append(missing, "assetUrl")
	}
	if strings.TrimSpace(s.AssetTitle) == "" {
		missing = append(missing, "assetTitle")
	}
	if strings.TrimSpace(s.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "issues", "validate", "missing "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// Report is an issue ready to be filed.
type Report struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

type layout struct {
	titlePrefix  string
	labels       []string
	heading      string
	byLabel      string
	dateLabel    string
	section      string
	checklistFor string
	checklist    []string
	footer       string
}

var layouts = map[Kind]layout{
	KindBroken: {
		titlePrefix:  "🚨 Broken Asset: ",
		labels:       []string{"bug", "broken-asset", "needs-investigation"},
		heading:      "Broken Asset Report",
		byLabel:      "Reported by",
		dateLabel:    "Report Date",
		section:      "Issue Description",
		checklistFor: "Automated Actions",
		checklist: []string{
			"Verify asset accessibility",
			"Check for alternative sources",
			"Update asset status in database",
			"Remove if permanently broken",
		},
		footer: "*This issue was automatically created from the Video Test Assets Portal*",
	},
	KindContribution: {
		titlePrefix:  "✨ New Asset Contribution: ",
		labels:       []string{"enhancement", "new-asset", "contribution"},
		heading:      "New Asset Contribution",
		byLabel:      "Contributed by",
		dateLabel:    "Contribution Date",
		section:      "Asset Details",
		checklistFor: "Review Checklist",
		checklist: []string{
			"Verify asset accessibility",
			"Test playback compatibility",
			"Extract technical metadata",
			"Add to asset database",
			"Update documentation",
		},
		footer: "*This contribution was submitted through the Video Test Assets Portal*",
	},
	KindEdit: {
		titlePrefix:  "📝 Asset Edit Request: ",
		labels:       []string{"enhancement", "asset-update", "edit-request"},
		heading:      "Asset Edit Request",
		byLabel:      "Requested by",
		dateLabel:    "Request Date",
		section:      "Requested Changes",
		checklistFor: "Review Process",
		checklist: []string{
			"Validate requested changes",
			"Update asset metadata",
			"Verify technical accuracy",
			"Update database records",
		},
		footer: "*This edit request was submitted through the Video Test Assets Portal*",
	},
}

// NewReport renders a submission at time now.
func NewReport(sub Submission, now time.Time) (Report, error) {
	if err := sub.Validate(); err != nil {
		return Report{}, err
	}
	tpl := layouts[Kind(strings.ToLower(strings.TrimSpace(string(sub.Kind))))]
	title := strings.TrimSpace(sub.AssetTitle)
	reporter := strings.TrimSpace(sub.UserEmail)
	if reporter == "" {
		reporter = "Anonymous user"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", tpl.heading)
	fmt.Fprintf(&b, "**Asset URL:** %s\n", strings.TrimSpace(sub.AssetURL))
	fmt.Fprintf(&b, "**Asset Title:** %s\n", title)
	fmt.Fprintf(&b, "**%s:** %s\n", tpl.byLabel, reporter)
	fmt.Fprintf(&b, "**%s:** %s\n\n", tpl.dateLabel, now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "### %s\n%s\n\n", tpl.section, strings.TrimSpace(sub.Description))
	fmt.Fprintf(&b, "### %s\n", tpl.checklistFor)
	for _, item := range tpl.checklist {
		fmt.Fprintf(&b, "- [ ] %s\n", item)
	}
	fmt.Fprintf(&b, "\n---\n%s", tpl.footer)

	return Report{
		Title:  tpl.titlePrefix + title,
		Body:   b.String(),
		Labels: append([]string(nil), tpl.labels...),
	}, nil
}
