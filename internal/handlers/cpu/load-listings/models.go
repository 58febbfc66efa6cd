// internal/handlers/cpu/load-listings/models.go
package loadlistings

import "cpu-listings/internal/models"

type Input struct {
	Budget   string `json:"budget"`
	Enhanced bool   `json:"enhanced"`
}

type Output struct {
	AllListings []models.Listing `json:"allListings"`
	Listings    []models.Listing `json:"listings"`
}
