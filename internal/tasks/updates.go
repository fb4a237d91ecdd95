package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchEntries Phase = iota
	FetchCatalog
	JoinList
	FetchActivities
	FetchGoals
	FetchStats
	WarmBooks
	ExportList
)

func (p Phase) String() string {
	switch p {
	case FetchEntries:
		return "fetch_entries"
	case FetchCatalog:
		return "fetch_catalog"
	case JoinList:
		return "join_list"
	case FetchActivities:
		return "fetch_activities"
	case FetchGoals:
		return "fetch_goals"
	case FetchStats:
		return "fetch_stats"
	case WarmBooks:
		return "warm_books"
	case ExportList:
		return "export_list"
	default:
		return "unknown"
	}
}

func fetchingEntriesUpdate(userID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("Fetching list entries for user %d...", userID),
	}
}

func fetchingCatalogUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    2,
		Total:   3,
		Message: "Fetching catalog...",
	}
}

func joiningUpdate(entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   JoinList,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("Joining %d entries with catalog...", entries),
	}
}

func dumpUpdate(phase Phase, step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", what),
	}
}

func warmingUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmBooks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching %s (%d/%d)...", title, step, total),
	}
}
