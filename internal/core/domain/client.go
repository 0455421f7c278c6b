package domain

import (
	"errors"
	"time"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrClientNumberTaken = errors.New("client number already exists")
)

// Client is a customer of the business. MF is the Tunisian fiscal matricule
// (tax identification number).
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ClientNumber string    `json:"clientNumber"`
	Address      string    `json:"address"`
	MF           string    `json:"mf"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
