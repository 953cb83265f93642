package dto

// ErrorResponse carries the message under both keys; older clients read "message".
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Message: msg}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
