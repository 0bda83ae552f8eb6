package dto

type GenerateResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ID        string `json:"id,omitempty"`
	ArchiveID string `json:"archive_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
