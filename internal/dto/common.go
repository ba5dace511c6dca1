package dto

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Deleted int64 `json:"deleted"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
