// internal/handlers/cpu/budget-action/models.go
package budgetaction

import "cpu-listings/internal/models"

const FailureMessage = "An error occurred while processing your request."

type Input struct {
	Budget models.Budget
}

// Payload is serialized into the data field of a successful Result.
type Payload struct {
	Budget      models.Budget    `json:"budget"`
	Listings    []models.Listing `json:"Listings"`
	AllListings []models.Listing `json:"allListings"`
}

type Result struct {
	Type   string `json:"type"`
	Status int    `json:"status"`
	Data   string `json:"data"`
}

type Failure struct {
	Error string `json:"error"`
}
