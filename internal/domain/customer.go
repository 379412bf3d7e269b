package domain

import "time"

// CustomerAddress stores address fields as returned by the platform.
type CustomerAddress struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Country    string `json:"country,omitempty"`
	StreetName string `json:"streetName,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Customer is the profile of the signed-in account. Version is the
// platform's optimistic-concurrency counter for profile mutations.
type Customer struct {
	ID                       string            `json:"id"`
	Version                  int               `json:"version"`
	Email                    string            `json:"email"`
	FirstName                string            `json:"firstName,omitempty"`
	LastName                 string            `json:"lastName,omitempty"`
	DateOfBirth              string            `json:"dateOfBirth,omitempty"`
	Addresses                []CustomerAddress `json:"addresses,omitempty"`
	DefaultShippingAddressID string            `json:"defaultShippingAddressId,omitempty"`
	DefaultBillingAddressID  string            `json:"defaultBillingAddressId,omitempty"`
	CreatedAt                time.Time         `json:"createdAt"`
}

// DefaultShippingAddress returns the customer's default shipping address,
// or nil when none is configured.
func (c *Customer) DefaultShippingAddress() *CustomerAddress {
	if c == nil || c.DefaultShippingAddressID == "" {
		return nil
	}
	for i := range c.Addresses {
		if c.Addresses[i].ID == c.DefaultShippingAddressID {
			return &c.Addresses[i]
		}
	}
	return nil
}
