// Package intent turns chat messages into proposed issue mutations.
//
// Recognition is a fixed, ordered table of rules. Each rule pairs a pattern
// with the kind of action it proposes and an extractor for the title fragment
// and payload. Rules are tried top to bottom and the first one that matches
// both syntactically and against an issue title wins.
package intent

import (
	"regexp"
	"strings"

	"github.com/sumire/civic/internal/domain"
)

// Outcome classifies the result of Detect.
type Outcome int

const (
	// NoMatch means no rule recognised the message.
	NoMatch Outcome = iota
	// TargetNotFound means a rule recognised the message but no issue title
	// contained the referenced fragment.
	TargetNotFound
	// Matched means an action was proposed.
	Matched
)

// Detection is the full result of running the rule table over a message.
type Detection struct {
	Outcome Outcome
	Action  *domain.ProposedAction
	// Fragment is the title fragment of the first rule that matched
	// syntactically. Empty when Outcome is NoMatch.
	Fragment string
}

type rule struct {
	kind    domain.ActionKind
	pattern *regexp.Regexp
	// extract returns the title fragment and payload from the named groups.
	extract func(g groups) (string, domain.ActionPayload)
}

// groups maps subexpression names to their matched text.
type groups map[string]string

// title returns the quoted title when present, the unquoted one otherwise.
func (g groups) title() string {
	if q := g["qtitle"]; q != "" {
		return q
	}
	return g["title"]
}

// A quoted title is taken whole, so it may contain " to " or " as ".
const (
	titleGroup  = `(?:"(?P<qtitle>[^"]+)"|(?P<title>.+?))`
	statusGroup = `(?P<status>resolved|pending|in progress)`
)

var rules = []rule{
	{
		kind:    domain.ActionUpdateStatus,
		pattern: regexp.MustCompile(`(?i)\b(?:update|change|set|make)\s+(?:the\s+)?(?:status\s+of\s+)?(?:issue\s+)?` + titleGroup + `\s+(?:to|as)\s+` + statusGroup + `\b`),
		extract: statusPayload,
	},
	{
		kind:    domain.ActionUpdateStatus,
		pattern: regexp.MustCompile(`(?i)\bmark\s+(?:the\s+)?(?:issue\s+)?` + titleGroup + `\s+as\s+` + statusGroup + `\b`),
		extract: statusPayload,
	},
	{
		kind:    domain.ActionUpdateStatus,
		pattern: regexp.MustCompile(`(?i)\b(?:resolve|make\s+resolved)\s+(?:issue\s+)?` + titleGroup + `$`),
		extract: func(g groups) (string, domain.ActionPayload) {
			return g.title(), domain.ActionPayload{Status: domain.IssueStatusResolved}
		},
	},
	{
		kind:    domain.ActionAssignIssue,
		pattern: regexp.MustCompile(`(?i)\bassign\s+(?:issue\s+)?` + titleGroup + `\s+to\s+(?P<assignee>.+)$`),
		extract: func(g groups) (string, domain.ActionPayload) {
			return g.title(), domain.ActionPayload{AssignedTo: cleanFragment(g["assignee"])}
		},
	},
	{
		kind:    domain.ActionDeleteIssue,
		pattern: regexp.MustCompile(`(?i)\bdelete\s+(?:the\s+)?(?:issue\s+)?` + titleGroup + `$`),
		extract: func(g groups) (string, domain.ActionPayload) {
			return g.title(), domain.ActionPayload{}
		},
	},
}

func statusPayload(g groups) (string, domain.ActionPayload) {
	return g.title(), domain.ActionPayload{Status: NormalizeStatus(g["status"])}
}

// submatches names the groups of a match of re.
func submatches(re *regexp.Regexp, m []string) groups {
	g := make(groups, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			g[name] = m[i]
		}
	}
	return g
}

// NormalizeStatus lower-cases a recognised status phrase and replaces its
// first space with an underscore ("in progress" -> "in_progress"). It is not
// a general normaliser.
func NormalizeStatus(s string) domain.IssueStatus {
	return domain.IssueStatus(strings.Replace(strings.ToLower(s), " ", "_", 1))
}

// Match returns the action proposed by message, or nil when no rule matches
// or no issue title contains the referenced fragment.
func Match(message string, issues []domain.Issue) *domain.ProposedAction {
	return Detect(message, issues).Action
}

// Detect runs the rule table over message and resolves the referenced issue
// against issues in order.
func Detect(message string, issues []domain.Issue) Detection {
	msg := strings.TrimRight(strings.TrimSpace(message), ".!?")

	var det Detection
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(msg)
		if m == nil {
			continue
		}

		fragment, payload := r.extract(submatches(r.pattern, m))
		fragment = cleanFragment(fragment)
		if fragment == "" {
			continue
		}
		if det.Outcome == NoMatch {
			det = Detection{Outcome: TargetNotFound, Fragment: fragment}
		}

		issue := findByTitle(issues, fragment)
		if issue == nil {
			continue
		}

		return Detection{
			Outcome:  Matched,
			Fragment: fragment,
			Action: &domain.ProposedAction{
				Kind:             r.kind,
				TargetIssueID:    issue.ID,
				TargetIssueTitle: issue.Title,
				Payload:          payload,
			},
		}
	}
	return det
}

func cleanFragment(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'`))
}

// findByTitle returns the first issue whose title contains fragment,
// ignoring case.
func findByTitle(issues []domain.Issue, fragment string) *domain.Issue {
	needle := strings.ToLower(fragment)
	for i := range issues {
		if strings.Contains(strings.ToLower(issues[i].Title), needle) {
			return &issues[i]
		}
	}
	return nil
}
