package server

import "studypal/models"

// HTTPError is a generic error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// ChatRequest is the chat endpoint payload.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse carries the assistant's answer, the conversation id to reuse
// on the next turn, and the source excerpts the answer drew on.
type ChatResponse struct {
	Response       string   `json:"response"`
	ConversationID string   `json:"conversation_id"`
	Sources        []string `json:"sources"`
}

// IndexResponse acknowledges a document indexing request.
type IndexResponse struct {
	Message string `json:"message"`
}

// ConversationResponse returns a conversation's stored history.
type ConversationResponse struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []models.Message `json:"messages"`
}

// CourseInput is one course in a GPA calculation request.
type CourseInput struct {
	Name    string  `json:"name"`
	Credits float64 `json:"credits"`
	Grade   string  `json:"grade"`
}

// GPARequest is the GPA calculation payload.
type GPARequest struct {
	Courses []CourseInput `json:"courses"`
}

// GPAResponse is the GPA calculation result.
type GPAResponse struct {
	GPA          float64 `json:"gpa"`
	TotalCredits float64 `json:"total_credits"`
	TotalPoints  float64 `json:"total_points"`
}

// HealthResponse reports liveness and whether the RAG chatbot is usable.
type HealthResponse struct {
	Status       string `json:"status"`
	RAGAvailable bool   `json:"rag_available"`
}
