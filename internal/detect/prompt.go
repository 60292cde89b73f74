package detect

import (
	"encoding/json"
	"fmt"
	"strings"

	"privasee/internal/domain"
	"privasee/internal/port"
)

// maxOCRTextChars caps how much recognized page text is inlined into the
// detection prompt; word boxes are always sent in full so entities can be
// located anywhere on the page.
const maxOCRTextChars = 3000

// BuildExtractionPrompt renders the entity-identification prompt for one
// page, combining the field definitions with the page's OCR context.
func BuildExtractionPrompt(fields []domain.FieldDefinition, ocrData *port.OCRResult) string {
	var fieldLines []string
	for _, f := range fields {
		fieldLines = append(fieldLines, fmt.Sprintf("- **%s**: %s", f.Name, f.Description))
	}

	ocrContext := "{}"
	if ocrData != nil {
		text := ocrData.Text
		if len(text) > maxOCRTextChars {
			text = text[:maxOCRTextChars]
		}
		ctxBytes, err := json.MarshalIndent(map[string]any{
			"text":       text,
			"word_count": len(ocrData.Words),
			"words":      ocrData.Words,
		}, "", "  ")
		if err == nil {
			ocrContext = string(ctxBytes)
		}
	}

	return fmt.Sprintf(`You are a document de-identification assistant. Your task is to identify sensitive information in documents that needs to be redacted or replaced.

**Document Context:**
The document has been processed with OCR. Here is the extracted text and structural information:

`+"```json\n%s\n```"+`

**Fields to Identify:**
%s

**Instructions:**
1. Carefully analyze the document image and OCR data
2. Identify ALL instances of the specified field types
3. Handle variations, typos, and partial matches intelligently
4. For each identified entity, determine its bounding box coordinates
5. Match entities to OCR word bounding boxes when possible for accuracy

**Output Format:**
Return a JSON array with this exact structure (no additional text):

`+"```json"+`
[
  {
    "entity_type": "field name from definitions",
    "original_text": "exact text found in document",
    "bounding_box": [x, y, width, height],
    "confidence": 0.0-1.0
  }
]
`+"```"+`

**Bounding Box Format:**
- All coordinates are normalized 0.0-1.0 values (fraction of page width/height)
- x: left edge, y: top edge, width/height: fractions of the page
- Match the bounding_box values from the words list above as closely as possible

**Important:**
- Return ONLY the JSON array, no explanations
- Include all instances found, even repeats of the same entity
- If unsure about an entity, include it with lower confidence (>0.5)

Begin analysis:`, ocrContext, strings.Join(fieldLines, "\n"))
}
