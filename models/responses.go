package models

// StatusSuccess is the status of every successful response envelope.
const StatusSuccess = "success"

// DocumentResponse wraps a single document.
type DocumentResponse struct {
	Status string       `json:"status"`
	Data   DocumentData `json:"data"`
}

// DocumentData is the data member of [DocumentResponse].
type DocumentData struct {
	Data any `json:"data"`
}

// ListResponse wraps a page of documents.
type ListResponse struct {
	Status  string       `json:"status"`
	Results int          `json:"results"`
	Data    DocumentData `json:"data"`
}

// SessionResponse is returned by every operation that issues a token.
type SessionResponse struct {
	Status string      `json:"status"`
	Token  string      `json:"token"`
	Data   SessionData `json:"data"`
}

// SessionData is the data member of [SessionResponse].
type SessionData struct {
	User User `json:"user"`
}

// MessageResponse carries a status and a human-readable message.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CheckoutResponse is returned by the checkout-session endpoint.
type CheckoutResponse struct {
	Status  string          `json:"status"`
	Session CheckoutSession `json:"session"`
}

// NewDocumentResponse builds a success envelope for one document.
func NewDocumentResponse(doc any) DocumentResponse {
	return DocumentResponse{Status: StatusSuccess, Data: DocumentData{Data: doc}}
}

// NewListResponse builds a success envelope for a list of documents.
func NewListResponse[T any](docs []T) ListResponse {
	if docs == nil {
		docs = []T{}
	}

	return ListResponse{Status: StatusSuccess, Results: len(docs), Data: DocumentData{Data: docs}}
}
