package domain

// JobStatus represents the terminal outcome of one extraction job.
type JobStatus string

const (
	JobStatusSuccess JobStatus = "success"
	JobStatusError   JobStatus = "error"
	JobStatusSkipped JobStatus = "skipped"
)

// FailureKind splits failed jobs by whether retries were exhausted or the
// failure was never retryable.
type FailureKind string

const (
	FailureTransientExhausted FailureKind = "transient_exhausted"
	FailureTerminal           FailureKind = "terminal"
)

// Skip reasons recorded on JobResult.Reason.
const (
	SkipReasonAlreadySaved = "already_saved"
	SkipReasonEmptyText    = "empty_text"
)

// TableName identifies one of the six relational output tables.
type TableName string

const (
	TableIncidents      TableName = "incidents"
	TablePlaintiffs     TableName = "plaintiffs"
	TableDefendants     TableName = "defendants"
	TableHarms          TableName = "harms"
	TableHarmPlaintiffs TableName = "harm_plaintiffs"
	TableHarmDefendants TableName = "harm_defendants"
)

// AllTables lists the output tables in export order.
var AllTables = []TableName{
	TableIncidents,
	TablePlaintiffs,
	TableDefendants,
	TableHarms,
	TableHarmPlaintiffs,
	TableHarmDefendants,
}
