package domain

// ReplacementStrategy controls how an identified entity is replaced.
type ReplacementStrategy string

const (
	StrategyFakeData    ReplacementStrategy = "Fake Data"
	StrategyBlackOut    ReplacementStrategy = "Black Out"
	StrategyEntityLabel ReplacementStrategy = "Entity Label"
)

// BlackOutSentinel is the replacement value for blacked-out entities. The
// masker treats it as "blank box, no overlay text".
const BlackOutSentinel = "[REDACTED]"

// MaskedFilePrefix marks masked output documents. Files carrying the prefix
// are excluded from batch input scans.
const MaskedFilePrefix = "masked_"

// DocumentStatus is the outcome of processing one batch document.
type DocumentStatus string

const (
	DocumentStatusSuccess DocumentStatus = "success"
	DocumentStatusError   DocumentStatus = "error"
)

// Gender is the result of the name-gender inference capability.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// FieldSource tells where a field definition came from.
type FieldSource string

const (
	FieldSourceSystem FieldSource = "system"
	FieldSourceCustom FieldSource = "custom"
)
