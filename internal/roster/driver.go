// Package roster owns the working copy of driver records for the triage
// activity: derivation of readiness status, filtering, sorting, pagination,
// and the fix/edit operations.
package roster

import "strings"

// Status is the derived readiness bucket of a driver record. It is never
// stored; it is recomputed from the record's fields on every read.
type Status int

const (
	// StatusAiFixable means the only blocking issue is disabled mobile
	// access, resolvable by a single automated action.
	StatusAiFixable Status = iota
	StatusManualFixRequired
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusAiFixable:
		return "AI can fix"
	case StatusManualFixRequired:
		return "Manual fix needed"
	case StatusReady:
		return "Ready"
	}
	return "unknown"
}

// Severity ranks an issue for display.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityHigh
	SeverityMedium
	SeverityLow
	SeverityNone // synthesized "no issues" entry
)

// Issue is one derived problem on a record. The first issue in the list is
// the primary issue shown in summary views.
type Issue struct {
	Text     string
	Severity Severity
}

// Driver is one roster record. Email validity and status are derived from
// these fields, never stored alongside them.
type Driver struct {
	ID            string
	Name          string
	DisplayID     string
	Email         string
	MobileAccess  bool
	VehicleGroups []string
	AccountLocked bool

	// EditError annotates the last saved edit when its email failed
	// validation. The edit is still accepted; this is display state.
	EditError string
}

// Status derives the readiness bucket. Locked accounts, missing or invalid
// emails, and empty group assignments all require manual attention; after
// that the only thing standing between a driver and Ready is mobile access.
func (d Driver) Status() Status {
	switch {
	case d.AccountLocked, d.Email == "", !ValidEmail(d.Email), len(d.VehicleGroups) == 0:
		return StatusManualFixRequired
	case !d.MobileAccess:
		return StatusAiFixable
	}
	return StatusReady
}

// Issues derives the ordered issue list. Disabled mobile access is surfaced
// only when the record is otherwise clean; a fully clean record gets a
// single synthesized entry.
func (d Driver) Issues() []Issue {
	var issues []Issue
	if d.AccountLocked {
		issues = append(issues, Issue{Text: "Account locked", Severity: SeverityCritical})
	}
	if d.Email == "" {
		issues = append(issues, Issue{Text: "No email provided", Severity: SeverityHigh})
	} else if !ValidEmail(d.Email) {
		issues = append(issues, Issue{Text: "Invalid email format", Severity: SeverityHigh})
	}
	if len(d.VehicleGroups) == 0 {
		issues = append(issues, Issue{Text: "No vehicle groups assigned", Severity: SeverityMedium})
	}
	if len(issues) == 0 && !d.MobileAccess {
		issues = append(issues, Issue{Text: "Mobile access disabled", Severity: SeverityLow})
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{Text: "No issues detected", Severity: SeverityNone})
	}
	return issues
}

// PrimaryIssue returns the highest-priority issue for summary rows.
func (d Driver) PrimaryIssue() Issue {
	return d.Issues()[0]
}

// Initials returns the avatar initials for a display name.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(b.String())
}

// ValidEmail reports whether s is a plausible address: exactly one "@", a
// non-empty local part, and a domain containing at least one "." with
// non-empty labels on both sides.
func ValidEmail(s string) bool {
	if strings.ContainsAny(s, " \t") {
		return false
	}
	if strings.Count(s, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(s, "@")
	if local == "" || domain == "" {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}

// clone deep-copies a driver so the engine's working copy can never alias
// fixture data.
func (d Driver) clone() Driver {
	out := d
	out.VehicleGroups = append([]string(nil), d.VehicleGroups...)
	return out
}
