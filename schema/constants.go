package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// TierKind selects the attack or defence partition of a tier mapping.
	TierKind string

	// RunKind identifies which calculation produced an analysis run.
	RunKind string

	// RankBy selects which average a schedule view is ordered by.
	RankBy string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Tier partitions.
const (
	AttackTier  TierKind = "attack"
	DefenceTier TierKind = "defence"
)

// Calculation kinds recorded in the analysis store.
const (
	GameweekRun RunKind = "gameweek"
	HorizonRun  RunKind = "horizon"
	ScheduleRun RunKind = "schedule"
)

// Schedule orderings.
const (
	RankByAttack  RankBy = "attack" // default
	RankByDefence RankBy = "defence"
)

// Tier bounds and the fallback used for unknown teams.
const (
	MinTier     = 1
	MaxTier     = 5
	DefaultTier = 3
)

// SeasonGameweeks is the default length of a league season.
const SeasonGameweeks = 38

// ValidHorizons lists the horizons offered by the CLI and HTTP layers.
var ValidHorizons = []int{3, 5, 8, 10}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidTierKinds lists all valid tier partitions.
var ValidTierKinds = map[TierKind]struct{}{
	AttackTier:  {},
	DefenceTier: {},
}
