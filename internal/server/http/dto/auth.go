package dto

// AuthRequest describes the panel login payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
