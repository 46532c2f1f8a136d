package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history tracking.
	DatabaseBackend string

	// ProviderKind represents the repository access provider in use.
	ProviderKind string

	// ColorCategory is the complexity bucket a file falls into.
	ColorCategory string

	// Phase is the state of a pipeline run.
	Phase string

	// EventKind is the kind of event emitted by a pipeline run.
	EventKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All access providers supported.
const (
	GitHubProvider ProviderKind = "github" // default
	GitProvider    ProviderKind = "git"
)

// Complexity buckets, ordered from least to most complex.
const (
	LowCategory    ColorCategory = "low"
	MediumCategory ColorCategory = "medium"
	HighCategory   ColorCategory = "high"
)

// Pipeline phases.
const (
	IdlePhase      Phase = "idle"
	ListingPhase   Phase = "listing"
	AnalyzingPhase Phase = "analyzing"
	CompletedPhase Phase = "completed"
	FailedPhase    Phase = "failed"
)

// Pipeline event kinds.
const (
	ProgressEvent  EventKind = "progress"
	CompletedEvent EventKind = "completed"
	FailedEvent    EventKind = "failed"
)

// Default encoding parameters.
const (
	DefaultExtension       = ".java"
	DefaultYellowThreshold = 5
	DefaultRedThreshold    = 10
	DefaultHost            = "github.com"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidProviderKinds lists all valid access providers.
var ValidProviderKinds = map[ProviderKind]struct{}{
	GitHubProvider: {},
	GitProvider:    {},
}

// AllColorCategories returns the buckets in ascending order of complexity.
var AllColorCategories = []ColorCategory{LowCategory, MediumCategory, HighCategory}

// IsTerminal reports whether the phase ends a run.
func (p Phase) IsTerminal() bool {
	return p == CompletedPhase || p == FailedPhase
}
