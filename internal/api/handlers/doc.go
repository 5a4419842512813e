package handlers

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// defaultOwner is used when a request carries no X-Owner-ID header.
// Single-user deployments never need to set the header.
const defaultOwner = "default"

func ownerOrDefault(id string) string {
	if id == "" {
		return defaultOwner
	}
	return id
}
