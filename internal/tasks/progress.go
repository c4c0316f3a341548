package tasks

import "fmt"

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
	LoadKeywords Phase = iota
	LoadTakeouts
	LoadFolders
	LoadMediaItems
	LoadDeletedMediaItems
	Initialized
	Redownload
	Upload
)

func (p Phase) String() string {
	switch p {
	case LoadKeywords:
		return "load_keywords"
	case LoadTakeouts:
		return "load_takeouts"
	case LoadFolders:
		return "load_folders"
	case LoadMediaItems:
		return "load_media_items"
	case LoadDeletedMediaItems:
		return "load_deleted_media_items"
	case Initialized:
		return "initialized"
	case Redownload:
		return "redownload"
	case Upload:
		return "upload"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadStepUpdate(phase Phase, step int, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   loadSteps,
		Message: message,
	}
}

func redownloadUpdate(step, total int, id string, err error) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", step, total, id)
	if err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err)
	}
	return ProgressUpdate{
		Phase:   Redownload,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    id,
	}
}

func uploadUpdate(count int, albumName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Uploading %d files to %s...", count, albumName),
	}
}
