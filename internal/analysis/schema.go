package analysis

import "github.com/44frames/stage-vision/internal/schemas"

// resultSchema is the contract the vision model must satisfy. The
// response is rejected before decoding if it does not conform.
const resultSchema = `{
	"type": "object",
	"required": ["room_type", "is_occupied", "staging_prompt"],
	"properties": {
		"room_type": {
			"type": "string",
			"enum": [
				"kitchen", "bathroom", "bedroom", "living_room",
				"dining_room", "hallway", "exterior", "office", "other"
			]
		},
		"is_occupied": {"type": "boolean"},
		"issues": {
			"type": "array",
			"items": {"type": "string"}
		},
		"staging_prompt": {"type": "string", "minLength": 1}
	}
}`

func validateResultJSON(doc string) error {
	return schemas.ValidateJSONString(resultSchema, doc)
}
