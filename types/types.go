// Package types defines the data structures used in the URL shortener service.
package types

// URLMapping is the persisted short code to long URL record.
// CreatedAt is epoch milliseconds and never changes after creation.
type URLMapping struct {
	ShortCode string `json:"short_code" bson:"_id"`
	LongURL   string `json:"long_url" bson:"long_url"`
	CreatedAt int64  `json:"created_at" bson:"created_at"`
}

// CreateURLRequest is the request body for creating a short URL.
type CreateURLRequest struct {
	URL string `json:"url" validate:"required"`
}

// CreateURLResponse is returned after a successful create.
type CreateURLResponse struct {
	LongURL  string `json:"long_url"`
	ShortURL string `json:"short_url"`
}

// URLInfoResponse describes a stored mapping.
type URLInfoResponse struct {
	ShortCode string `json:"short_code"`
	LongURL   string `json:"long_url"`
	ShortURL  string `json:"short_url"`
	CreatedAt int64  `json:"created_at"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
