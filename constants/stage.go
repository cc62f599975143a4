package constants

// Stage is the canonical per-document pipeline stage.
type Stage string

// Stable values (these exact strings appear in logs and failure reasons).
const (
	StageEnumerated      Stage = "ENUMERATED"
	StageTextAcquired    Stage = "TEXT_ACQUIRED"
	StageClassified      Stage = "CLASSIFIED"
	StageSnippetSelected Stage = "SNIPPET_SELECTED"
	StageCacheHit        Stage = "CACHE_HIT"
	StageModelCalled     Stage = "MODEL_CALLED"
	StageMerged          Stage = "MERGED"
	StageRedacted        Stage = "REDACTED"
	StagePersisted       Stage = "PERSISTED"
	StageFailed          Stage = "FAILED"
)
