package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ModerationBlocked is the fixed 400 body for content rejected by the
// moderation filter.
type ModerationBlocked struct {
	Error   string `json:"error"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func NewModerationBlocked(reason, message string) ModerationBlocked {
	return ModerationBlocked{Error: "conteudo_bloqueado", Reason: reason, Message: message}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
