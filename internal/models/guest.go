package models

type IssueType string

const (
	IssueMissing   IssueType = "missing"
	IssueMismatch  IssueType = "mismatch"
	IssueWindow    IssueType = "window"
	IssueDuplicate IssueType = "duplicate"
)

type Issue struct {
	Type IssueType `json:"type"`
	Text string    `json:"text"`
}

type Status string

const (
	StatusOK    Status = "ok"
	StatusWarn  Status = "warn"
	StatusError Status = "error"
)

// ParseStatus validates a user-supplied status filter.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusOK, StatusWarn, StatusError:
		return Status(s), true
	}
	return "", false
}

type MatchStrategy string

const (
	MatchedByEmail MatchStrategy = "email"
	MatchedByName  MatchStrategy = "name"
)

// Details holds signed day offsets; nil means the offset could not be computed.
type Details struct {
	ArrDiff     *int `json:"arr_diff"`
	DepDiff     *int `json:"dep_diff"`
	PickupDiff  *int `json:"pickup_diff"`
	DropoffDiff *int `json:"dropoff_diff"`
}

// Guest is the unified cross-source record for one attendee.
type Guest struct {
	Key         string         `json:"key"`
	DisplayName string         `json:"display_name"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	MatchedBy   MatchStrategy  `json:"matched_by"`
	Flight      *FlightRecord  `json:"flight"`
	Hotel       *HotelRecord   `json:"hotel"`
	Car         *CarRecord     `json:"car"`
	Diet        *DietaryRecord `json:"diet"`
	Issues      []Issue        `json:"issues"`
	Details     Details        `json:"details"`
	Resolved    []string       `json:"resolved"`
	Status      Status         `json:"status"`
	Note        string         `json:"note"`
}

// MetaKey is the key used for the guest in the metadata store.
func (g Guest) MetaKey() string {
	if g.Email != "" {
		return g.Email
	}
	return g.Key
}

// HasIssue reports whether the guest carries an issue with exactly this text.
func (g Guest) HasIssue(text string) bool {
	for _, issue := range g.Issues {
		if issue.Text == text {
			return true
		}
	}
	return false
}

// IsResolved reports whether the issue text has been marked resolved.
func (g Guest) IsResolved(text string) bool {
	for _, r := range g.Resolved {
		if r == text {
			return true
		}
	}
	return false
}
