package llm

import "github.com/joseph-ayodele/legal-intake/constants"

// Per-type function schemas (JSON-Schema subset as generic maps). We pass
// these to the extraction service as function declarations and also use
// them locally to validate the answer.

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

func stringArrayProp() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func schemaMedical() map[string]any {
	return map[string]any{
		"name":        "extract_medical_json",
		"description": "Return compact JSON for medical record",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient_name":     stringProp(),
				"dob":              stringProp(),
				"dates_of_service": stringArrayProp(),
				"diagnoses":        stringArrayProp(),
				"procedures":       stringArrayProp(),
				"medications":      stringArrayProp(),
				"confidence":       map[string]any{"type": "number"},
			},
			"required": []string{"patient_name", "confidence"},
		},
	}
}

func schemaPleading() map[string]any {
	return map[string]any{
		"name":        "extract_pleading_json",
		"description": "Return compact JSON for pleading",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"court":            stringProp(),
				"caption":          stringProp(),
				"index_number":     stringProp(),
				"parties":          stringArrayProp(),
				"causes_of_action": stringArrayProp(),
				"relief_sought":    stringProp(),
				"confidence":       map[string]any{"type": "number"},
			},
			"required": []string{"caption", "confidence"},
		},
	}
}

func schemaPolice() map[string]any {
	return map[string]any{
		"name":        "extract_police_json",
		"description": "Return compact JSON for police report",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"report_number": stringProp(),
				"incident_date": stringProp(),
				"location":      stringProp(),
				"officer":       stringProp(),
				"vehicles":      stringArrayProp(),
				"injuries":      stringArrayProp(),
				"violations":    stringArrayProp(),
				"confidence":    map[string]any{"type": "number"},
			},
			"required": []string{"incident_date", "confidence"},
		},
	}
}

func schemaTranscript() map[string]any {
	return map[string]any{
		"name":        "extract_transcript_json",
		"description": "Return compact JSON for deposition or 50-h transcript",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"witness_name":        stringProp(),
				"date":                stringProp(),
				"key_admissions":      stringArrayProp(),
				"key_inconsistencies": stringArrayProp(),
				"credibility_factors": stringArrayProp(),
				"citations": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"page": map[string]any{"type": "integer"},
							"line": stringProp(),
							"text": stringProp(),
						},
						"required": []string{"page", "text"},
					},
				},
				"confidence": map[string]any{"type": "number"},
			},
			"required": []string{"confidence"},
		},
	}
}

func schemaEOB() map[string]any {
	return map[string]any{
		"name":        "extract_eob_json",
		"description": "Return compact JSON for insurance explanation of benefits",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"payer":          stringProp(),
				"member":         stringProp(),
				"claim_number":   stringProp(),
				"service_dates":  stringArrayProp(),
				"allowed_amount": stringProp(),
				"denied_amount":  stringProp(),
				"adjustments":    stringArrayProp(),
				"confidence":     map[string]any{"type": "number"},
			},
			"required": []string{"payer", "claim_number", "confidence"},
		},
	}
}

func schemaImaging() map[string]any {
	return map[string]any{
		"name":        "extract_imaging_json",
		"description": "Return compact JSON for imaging report",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient_name": stringProp(),
				"study_type":   stringProp(),
				"study_date":   stringProp(),
				"impression":   stringArrayProp(),
				"findings":     stringArrayProp(),
				"confidence":   map[string]any{"type": "number"},
			},
			"required": []string{"impression", "confidence"},
		},
	}
}

// FunctionsFor returns the function declarations to attach: one schema per
// known type, all six for unknown (the service picks the most applicable).
func FunctionsFor(dt constants.DocType) []map[string]any {
	switch dt {
	case constants.DocTypeMedical:
		return []map[string]any{schemaMedical()}
	case constants.DocTypePleading:
		return []map[string]any{schemaPleading()}
	case constants.DocTypePolice:
		return []map[string]any{schemaPolice()}
	case constants.DocTypeTranscript:
		return []map[string]any{schemaTranscript()}
	case constants.DocTypeEOB:
		return []map[string]any{schemaEOB()}
	case constants.DocTypeImaging:
		return []map[string]any{schemaImaging()}
	default:
		return []map[string]any{
			schemaMedical(), schemaPleading(), schemaPolice(),
			schemaTranscript(), schemaEOB(), schemaImaging(),
		}
	}
}

// FunctionNameFor returns the forced target function name for a type.
// Unknown defaults to the medical schema, matching the original routing.
func FunctionNameFor(dt constants.DocType) string {
	switch dt {
	case constants.DocTypePleading:
		return "extract_pleading_json"
	case constants.DocTypePolice:
		return "extract_police_json"
	case constants.DocTypeTranscript:
		return "extract_transcript_json"
	case constants.DocTypeEOB:
		return "extract_eob_json"
	case constants.DocTypeImaging:
		return "extract_imaging_json"
	default:
		return "extract_medical_json"
	}
}

// ParametersFor returns the parameter schema for validation of the answer.
func ParametersFor(dt constants.DocType) map[string]any {
	fns := FunctionsFor(dt)
	params, _ := fns[0]["parameters"].(map[string]any)
	return params
}
