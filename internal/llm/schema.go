package llm

import "encoding/json"

// BuildQuoteJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass a rendering of this to the model as format
// instructions and also use it locally to validate the raw output.
//
// quote_date is deliberately a plain string here: an unparseable date is
// recovered by the "substitute today" policy in PostValidate, not rejected
// at the schema stage.
func BuildQuoteJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"item_number":     nullableProp("string"),
			"description":     nullableProp("string"),
			"quantity":        nullableProp("number"),
			"unit_price":      nullableProp("number"),
			"unit_of_measure": nullableProp("string"),
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"supplier_name": nullableProp("string"),
			"quote_number":  nullableProp("string"),
			"quote_date":    nullableProp("string"),
			"items": map[string]any{
				"type":  "array",
				"items": item,
			},
		},
	}
}

// nullableProp allows the model to express a clearly-missing value as null,
// matching extraction guideline 5.
func nullableProp(typ string) map[string]any {
	return map[string]any{"type": []string{typ, "null"}}
}

// FormatInstructions renders the machine-readable schema description that
// replaces the {format_instructions} placeholder in the system prompt.
func FormatInstructions() string {
	b, _ := json.MarshalIndent(BuildQuoteJSONSchema(), "", "  ")
	return "Return ONLY a JSON object that matches this JSON Schema (no markdown fences, no commentary):\n" + string(b)
}
