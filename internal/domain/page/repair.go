package page

// Ref identifies a stored document found by a scan.
type Ref struct {
	ID      string
	URL     string
	Content string
}

// Patch is a partial document update written by the repair pass.
type Patch struct {
	Images   []Image  `json:"images"`
	FileType FileType `json:"file_type"`
	IsSafe   bool     `json:"is_safe"`
	Content  string   `json:"content"`
}
