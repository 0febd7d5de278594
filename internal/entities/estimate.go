package entities

// Service is a billable maintenance task with a fixed price and duration.
type Service struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Price   int    `json:"price"`
	Minutes int    `json:"minutes"`
}

type Estimate struct {
	Services       []string `json:"services"`
	TotalCost      int      `json:"total_cost"`
	TotalMinutes   int      `json:"total_minutes"`
	Currency       string   `json:"currency"`
	Message        string   `json:"message"`
	EncodedMessage string   `json:"encoded_message"`
}
