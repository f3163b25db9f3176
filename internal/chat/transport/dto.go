package transport

// ChatRequest is one inbound message. ThreadID is optional; a missing
// one starts a new thread.
type ChatRequest struct {
	Message  string `json:"message" validate:"required,min=1,max=2000"`
	ThreadID string `json:"thread_id" validate:"omitempty,max=100"`
}

// ChatResponse carries the bot's reply and the thread to continue on.
type ChatResponse struct {
	Response string `json:"response"`
	ThreadID string `json:"thread_id"`
}
