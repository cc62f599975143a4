// Package classify routes intake documents to a document type by scoring
// fixed keyword lexicons over the concatenated document text.
package classify

import (
	"strings"

	"github.com/joseph-ayodele/legal-intake/constants"
)

// lexicons maps each non-unknown type to its scoring keywords. Scores are
// counted lowercase substring occurrences, one point per keyword present.
var lexicons = map[constants.DocType][]string{
	constants.DocTypeMedical: {
		"diagnosis", "treatment", "medication", "mrn", "cpt", "icd",
		"history of present illness",
	},
	constants.DocTypePleading: {
		"plaintiff", "defendant", "index no", "caption", "verified complaint",
		"affirmation", "affidavit", "notice of motion", "bill of particulars",
	},
	constants.DocTypePolice: {
		"police report", "officer", "badge", "mv104", "collision",
		"accident report", "precinct",
	},
	constants.DocTypeTranscript: {
		"examination before trial", "ebt", "deposition", "q:", "a:",
		"court reporter", "witness",
	},
	constants.DocTypeEOB: {
		"explanation of benefits", "eob", "claim number", "payer",
		"allowed amount", "denied", "adjustment code",
	},
	constants.DocTypeImaging: {
		"impression", "findings", "radiology", "mri", "ct", "x-ray",
		"ultrasound", "images reviewed",
	},
}

// Classify maps document text to a DocType. It is total and deterministic:
// the strictly highest lexicon score wins, an all-zero score yields unknown,
// and ties resolve in constants.DocTypePriority order.
func Classify(text string) constants.DocType {
	t := strings.ToLower(text)

	best := 0
	scores := make(map[constants.DocType]int, len(lexicons))
	for dt, keys := range lexicons {
		n := 0
		for _, k := range keys {
			if strings.Contains(t, k) {
				n++
			}
		}
		scores[dt] = n
		if n > best {
			best = n
		}
	}
	if best == 0 {
		return constants.DocTypeUnknown
	}
	for _, dt := range constants.DocTypePriority {
		if scores[dt] == best {
			return dt
		}
	}
	return constants.DocTypeUnknown
}

// Keywords returns the snippet-window lexicon for a type. Unknown gets a
// small cross-type probe set so the excerpt still lands on signal.
func Keywords(dt constants.DocType) []string {
	switch dt {
	case constants.DocTypeMedical:
		return []string{"diagnosis", "dx", "treatment", "medication", "procedure",
			"impression", "assessment", "plan", "chief complaint", "history"}
	case constants.DocTypePleading:
		return []string{"caption", "plaintiff", "defendant", "index no",
			"cause of action", "negligence", "damages", "wherefore", "relief"}
	case constants.DocTypePolice:
		return []string{"police report", "officer", "badge", "mv104", "collision",
			"accident", "location", "vehicle", "license", "injury"}
	case constants.DocTypeTranscript:
		return []string{"q:", "a:", "examination before trial", "deposition",
			"witness", "objection", "page", "line"}
	case constants.DocTypeEOB:
		return []string{"explanation of benefits", "eob", "payer", "claim",
			"allowed", "denied", "adjustment", "remark code", "member"}
	case constants.DocTypeImaging:
		return []string{"impression", "findings", "technique", "comparison",
			"mri", "ct", "x-ray", "ultrasound"}
	default:
		return []string{"plaintiff", "defendant", "diagnosis", "mv104",
			"deposition", "impression", "eob"}
	}
}
