package models

import "time"

// Product is the upstream catalog record. This service never mutates it;
// the upstream API owns the data.
type Product struct {
	ID              string  `json:"_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Subcategory     string  `json:"subcategory,omitempty"`
	Ratings         float64 `json:"ratings"`
	NumberOfReviews int     `json:"numberOfReviews"`
}

// CatalogPage is one page of the upstream catalog listing.
type CatalogPage struct {
	Success    bool      `json:"success"`
	Products   []Product `json:"products"`
	TotalPages int       `json:"totalPages"`
}

// ScoredProduct pairs a product with a relevance score for one request.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}

type SearchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// ChatAnalysis carries the heuristic classification behind a chat reply.
type ChatAnalysis struct {
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"`
	Intent         string  `json:"intent"`
	Confidence     float64 `json:"confidence"`
}

// InteractionEvent is the analytics record published after each
// search/chat/recommendation request.
type InteractionEvent struct {
	Type        string    `json:"type"` // search, suggest, chat, related, personalized
	Query       string    `json:"query,omitempty"`
	Intent      string    `json:"intent,omitempty"`
	Sentiment   string    `json:"sentiment,omitempty"`
	ResultCount int       `json:"result_count"`
	UserID      string    `json:"user_id,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// CatalogChangeEvent announces an upstream product mutation. Consuming one
// invalidates the local snapshot and the response cache.
type CatalogChangeEvent struct {
	Type      string    `json:"type"` // CREATE, UPDATE, DELETE
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}
