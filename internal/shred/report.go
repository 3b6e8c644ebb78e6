package shred

// EventKind identifies a progress notification.
type EventKind int

const (
	// EventStarted is sent once the file is open and the chunk plan is known.
	EventStarted EventKind = iota + 1
	// EventPassStarted is sent as each pass begins.
	EventPassStarted
	// EventPatternApplied is sent after a pattern has covered every chunk
	// (and, when enabled, been synced).
	EventPatternApplied
	// EventWarning carries a non-fatal error, such as a failed metadata strip.
	EventWarning
	// EventRenamed is sent after the file has been renamed to its random name.
	EventRenamed
	// EventCompleted is sent after the directory entry has been removed.
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPassStarted:
		return "pass_started"
	case EventPatternApplied:
		return "pattern_applied"
	case EventWarning:
		return "warning"
	case EventRenamed:
		return "renamed"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is a progress notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	Path string

	Size    int64
	Workers int
	Chunks  int

	Pass   int // 1-based
	Passes int

	Pattern      string
	PatternIndex int // 1-based position within the pass

	// Applied counts completed pattern applications across all passes;
	// Total is Passes*PatternsPerPass.
	Applied int
	Total   int

	NewName string
	Err     error
}

// Fraction returns overall progress in [0, 1].
func (e Event) Fraction() float64 {
	if e.Total <= 0 {
		if e.Kind == EventCompleted {
			return 1
		}
		return 0
	}
	f := float64(e.Applied) / float64(e.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// Reporter receives progress events. Report is called synchronously from the
// goroutine running SecureDelete, never from a writer.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// NopReporter discards all events.
var NopReporter Reporter = nopReporter{}
