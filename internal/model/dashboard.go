package model

// Dashboard is the body of GET /dashboard.
type Dashboard struct {
	Data []Row `json:"data"`
}
