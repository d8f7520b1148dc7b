package dto

// ExportResponse pairs the CSV body with a timestamped filename so repeated
// exports never collide.
type ExportResponse struct {
	Data     string `json:"data"`
	Filename string `json:"filename"`
}
