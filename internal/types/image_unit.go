package types

// UnitStatus represents the processing status of a single image.
type UnitStatus string

const (
	UnitPending     UnitStatus = "pending"
	UnitAnalyzed    UnitStatus = "analyzed"
	UnitTransformed UnitStatus = "transformed"
	UnitFailed      UnitStatus = "failed"
)

// Terminal reports whether the unit needs no further processing.
func (s UnitStatus) Terminal() bool {
	return s == UnitTransformed || s == UnitFailed
}

// ImageUnit tracks one photo through analysis and transformation.
// Each unit succeeds or fails independently of its siblings.
type ImageUnit struct {
	ID          string     `json:"id"`
	SourceURL   string     `json:"source_url,omitempty"`
	SourceFile  string     `json:"source_file"`
	RoomType    string     `json:"room_type,omitempty"`
	Occupied    bool       `json:"occupied,omitempty"`
	Issues      []string   `json:"issues,omitempty"`
	Instruction string     `json:"instruction,omitempty"`
	Status      UnitStatus `json:"status"`
	Attempts    int        `json:"attempts"`
	OutputFile  string     `json:"output_file,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// Analyzed reports whether the unit carries analysis results.
func (u *ImageUnit) Analyzed() bool {
	return u.RoomType != "" && u.Instruction != ""
}
