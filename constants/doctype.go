package constants

// DocType is the canonical classification category for an intake document.
type DocType string

// Stable values (these exact strings appear in outputs and cache keys).
const (
	DocTypeMedical    DocType = "medical_record"
	DocTypePleading   DocType = "pleading"
	DocTypePolice     DocType = "police_report"
	DocTypeTranscript DocType = "transcript"
	DocTypeEOB        DocType = "insurance_eob"
	DocTypeImaging    DocType = "imaging_report"
	DocTypeUnknown    DocType = "unknown"
)

// DocTypePriority is the tie-break order for classification: when two
// lexicons score equally, the earlier entry wins. Downstream schema
// selection depends on this ordering staying exactly as-is.
var DocTypePriority = []DocType{
	DocTypeMedical,
	DocTypePleading,
	DocTypePolice,
	DocTypeTranscript,
	DocTypeEOB,
	DocTypeImaging,
}

func (d DocType) String() string { return string(d) }
