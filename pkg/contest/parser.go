package contest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadCreditLine is returned when a "Submitted by" line cannot be
// parsed (unbalanced team-member parentheses).
var ErrBadCreditLine = errors.New("contest: malformed credit line")

// linkedIssueRegex matches issue headings whose title is itself a
// hyperlink: ## [[H-02] Title](https://...)
var linkedIssueRegex = regexp.MustCompile(`^## \[\[(H|M)-(\d+)\] ((?:\[[^\]]*\]|[^\]])*)\]\(https?://[^)]+\)`)

// plainIssueRegex matches issue headings without a hyperlink:
// ## [H-02] Title
var plainIssueRegex = regexp.MustCompile(`^## \[(H|M)-(\d+)\] (.*)`)

// creditPrefixes are the markers a report uses for the submitter
// credit line under an issue heading.
var creditPrefixes = []string{"*Submitted by ", "_Submitted by "}

// section is one ## block of a report, tagged with the enclosing
// # topic. The topic preamble (lines before the first ##) is carried
// as a section with an empty heading.
type section struct {
	topic   string
	heading string
	body    []string
}

// ParseReport parses one contest report from raw markdown.
//
// It extracts the warden roster from the numbered list under the
// Overview/Wardens section and one RawIssue per issue heading inside
// the High Risk Findings and Medium Risk Findings topics. Headings
// that do not match the published issue formats are skipped. A report
// with no recognizable issue sections yields an empty issue list, not
// an error.
func ParseReport(contestID string, raw []byte) *Report {
	rep := &Report{ID: contestID}
	for _, sec := range splitSections(string(raw)) {
		switch {
		case isWardensSection(sec):
			rep.Wardens = parseRoster(sec.body)
		case isIssueTopic(sec.topic):
			if iss, ok := parseIssueSection(contestID, sec); ok {
				rep.Issues = append(rep.Issues, iss)
			}
		}
	}
	return rep
}

// splitSections splits a report into ## sections grouped under their
// # topics. Headings inside fenced code blocks are ignored.
func splitSections(raw string) []section {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var (
		secs    []section
		cur     section
		started bool
		inFence bool
	)
	flush := func() {
		if started {
			secs = append(secs, cur)
		}
	}
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		switch {
		case !inFence && strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## "):
			flush()
			cur = section{topic: strings.TrimSpace(line[2:])}
			started = true
		case !inFence && strings.HasPrefix(line, "## "):
			flush()
			cur = section{topic: cur.topic, heading: line}
			started = true
		default:
			if started {
				cur.body = append(cur.body, line)
			}
		}
	}
	flush()
	return secs
}

// isIssueTopic reports whether a topic holds tracked issue sections.
func isIssueTopic(topic string) bool {
	return strings.Contains(topic, "High Risk Findings") ||
		strings.Contains(topic, "Medium Risk Findings")
}

// isWardensSection reports whether a section is the warden roster.
func isWardensSection(sec section) bool {
	if !strings.Contains(sec.topic, "Overview") {
		return false
	}
	item := strings.TrimSpace(strings.TrimPrefix(sec.heading, "##"))
	return strings.HasPrefix(item, "Wardens")
}

// parseIssueSection turns one issue section into a RawIssue. Returns
// false when the heading does not match either published format.
func parseIssueSection(contestID string, sec section) (RawIssue, bool) {
	m := linkedIssueRegex.FindStringSubmatch(sec.heading)
	if m == nil {
		m = plainIssueRegex.FindStringSubmatch(sec.heading)
	}
	if m == nil {
		return RawIssue{}, false
	}
	num, err := strconv.Atoi(m[2])
	if err != nil {
		return RawIssue{}, false
	}

	iss := RawIssue{
		ContestID:     contestID,
		SeverityLabel: m[1],
		GroupID:       fmt.Sprintf("%s-%d", m[1], num),
		Title:         strings.TrimSpace(m[3]),
	}
	for _, line := range sec.body {
		credit, ok := stripCreditPrefix(line)
		if !ok {
			continue
		}
		// A credit line that fails to parse leaves the submitter set
		// empty; the normalizer rejects and logs the record.
		if subs, err := parseCredits(credit); err == nil {
			iss.Submitters = subs
		}
		break
	}
	return iss, true
}

// stripCreditPrefix returns the credit line content after the
// "Submitted by" marker, and whether the line is a credit line.
func stripCreditPrefix(line string) (string, bool) {
	for _, p := range creditPrefixes {
		if strings.HasPrefix(line, p) {
			return strings.TrimPrefix(line, p), true
		}
	}
	return "", false
}

// parseCredits extracts submitter handles from the content of a
// "Submitted by" line. Handles may be wrapped in markdown links,
// followed by parenthesised team-member lists (skipped), separated by
// commas or "and", and may carry escaped underscores. The trailing
// markdown emphasis closing the line is stripped before scanning.
func parseCredits(line string) ([]string, error) {
	line = strings.ReplaceAll(line, "also found by ", "")
	line = strings.ReplaceAll(line, " and ", ", ")
	line = restoreEscapes(line)
	switch {
	case strings.HasSuffix(line, "*."), strings.HasSuffix(line, ".*"):
		line = line[:len(line)-2]
	case strings.HasSuffix(line, "*"), strings.HasSuffix(line, "_"):
		line = line[:len(line)-1]
	}

	var (
		names []string
		buf   []rune
		depth int
	)
	flush := func() {
		name := strings.TrimSpace(string(buf))
		buf = buf[:0]
		if name != "" {
			names = append(names, name)
		}
	}
	for _, r := range line {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth == 0 {
				return nil, fmt.Errorf("%w: unmatched closing parenthesis", ErrBadCreditLine)
			}
			depth--
		case r == '[' || r == ']':
			// markdown link brackets carry no name content
		case r == ',' && depth == 0:
			flush()
		case depth == 0:
			buf = append(buf, r)
		}
	}
	flush()
	return names, nil
}

// parseRoster extracts warden handles from the numbered list under the
// Wardens section. Numbering in published reports is inconsistent
// (some repeat "1." for every entry), so both the running counter and
// a literal "1." prefix are accepted.
func parseRoster(body []string) []string {
	var (
		wardens []string
		seen    = make(map[string]struct{})
		counter = 1
	)
	for _, line := range body {
		var rest string
		switch {
		case strings.HasPrefix(line, "1. "):
			rest = line[len("1. "):]
		case strings.HasPrefix(line, strconv.Itoa(counter)+". "):
			rest = line[len(strconv.Itoa(counter))+2:]
		default:
			continue
		}
		name := strings.TrimSpace(rest)
		if strings.HasPrefix(name, "[") {
			if end := strings.Index(name, "]"); end > 0 {
				name = name[1:end]
			}
		}
		if cut := strings.Index(name, "("); cut >= 0 {
			name = strings.TrimSpace(name[:cut])
		}
		name = restoreEscapes(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			wardens = append(wardens, name)
		}
		counter++
	}
	return wardens
}

// restoreEscapes undoes the underscore escaping report generators
// apply to markdown handles.
func restoreEscapes(s string) string {
	s = strings.ReplaceAll(s, "&#95;", "_")
	s = strings.ReplaceAll(s, `\_`, "_")
	s = strings.ReplaceAll(s, "&lowbar;", "_")
	return s
}
