package entities

// EntityType classifies a pattern match found in transcript text.
type EntityType string

// Entity types produced by the pattern extractor
const (
	EntityTypeEmail    EntityType = "email"
	EntityTypePhone    EntityType = "phone"
	EntityTypeURL      EntityType = "url"
	EntityTypeCurrency EntityType = "currency"
	EntityTypeDate     EntityType = "date"
	EntityTypeNumber   EntityType = "number"
	EntityTypeName     EntityType = "name"
	EntityTypeOther    EntityType = "other"
)

// ExtractedEntity is a single pattern match in transcript text.
// Instances are immutable once created.
type ExtractedEntity struct {
	Type  EntityType `json:"type"`
	Value string     `json:"value"`
}
