package flights

import (
	"strings"

	"github.com/Domenick1991/letservice/internal/domain"
)

type Tab string

const (
	TabUpcoming   Tab = "upcoming"
	TabInProgress Tab = "in_progress"
	TabArchive    Tab = "archive"
	TabPending    Tab = "pending"
	TabAll        Tab = "all"
)

// ParseTab is case-insensitive. An empty tab means upcoming and "archived"
// is an alias of archive.
func ParseTab(raw string) (Tab, error) {
	switch t := Tab(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return TabUpcoming, nil
	case "archived":
		return TabArchive, nil
	case TabUpcoming, TabInProgress, TabArchive, TabPending, TabAll:
		return t, nil
	}
	return "", domain.Validation("unknown tab")
}

// Includes reports whether a flight with the given approval and runtime
// status belongs on the tab.
func (t Tab) Includes(approval domain.ApprovalStatus, runtime domain.RuntimeStatus) bool {
	switch t {
	case TabUpcoming:
		return approval == domain.ApprovalApproved && runtime == domain.RuntimeUpcoming
	case TabInProgress:
		return approval == domain.ApprovalApproved && runtime == domain.RuntimeInProgress
	case TabArchive:
		return runtime == domain.RuntimeFinished || runtime == domain.RuntimeCanceled
	case TabPending:
		return approval == domain.ApprovalPending
	case TabAll:
		return true
	}
	return false
}

// matchesText does a case-insensitive substring search over the flight
// name, both airports and the airline name. q must already be lower case.
func matchesText(f *domain.Flight, q string) bool {
	if q == "" {
		return true
	}
	airline := ""
	if f.Airline != nil {
		airline = f.Airline.Name
	}
	hay := strings.ToLower(strings.Join([]string{f.Name, f.OriginAirport, f.DestinationAirport, airline}, " "))
	return strings.Contains(hay, q)
}
