package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/legal-intake/constants"
)

func TestClassifyUnknown(t *testing.T) {
	require.Equal(t, constants.DocTypeUnknown, Classify(""))
	require.Equal(t, constants.DocTypeUnknown, Classify("lorem ipsum dolor sit amet"))
}

func TestClassifyMedicalDominates(t *testing.T) {
	// Two medical keywords vs one pleading keyword, in arbitrary order.
	texts := []string{
		"diagnosis and medication for the plaintiff",
		"the plaintiff received medication after a diagnosis",
	}
	for _, txt := range texts {
		require.Equal(t, constants.DocTypeMedical, Classify(txt))
	}
}

func TestClassifyTieBreaksByPriority(t *testing.T) {
	// One pleading keyword, one police keyword: pleading outranks police.
	got := Classify("the plaintiff spoke to an officer")
	require.Equal(t, constants.DocTypePleading, got)

	// One medical keyword ties everything: medical wins outright.
	got = Classify("diagnosis noted; plaintiff present; officer on scene")
	require.Equal(t, constants.DocTypeMedical, got)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	require.Equal(t, constants.DocTypeEOB, Classify("EXPLANATION OF BENEFITS\nPAYER: ACME"))
}

func TestClassifyIsDeterministic(t *testing.T) {
	txt := "deposition of the witness; q: a: court reporter present"
	first := Classify(txt)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Classify(txt))
	}
	require.Equal(t, constants.DocTypeTranscript, first)
}
