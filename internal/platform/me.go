package platform

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

type CustomerDraft struct {
	Email                  string         `json:"email"`
	Password               string         `json:"password"`
	FirstName              string         `json:"firstName,omitempty"`
	LastName               string         `json:"lastName,omitempty"`
	DateOfBirth            string         `json:"dateOfBirth,omitempty"`
	Addresses              []AddressDraft `json:"addresses,omitempty"`
	DefaultShippingAddress *int           `json:"defaultShippingAddress,omitempty"`
	DefaultBillingAddress  *int           `json:"defaultBillingAddress,omitempty"`
}

type AddressDraft struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Country    string `json:"country"`
	StreetName string `json:"streetName,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
	Email      string `json:"email,omitempty"`
}

// CustomerUpdate is a versioned batch of profile mutation actions.
type CustomerUpdate struct {
	Version int              `json:"version"`
	Actions []CustomerAction `json:"actions"`
}

// CustomerAction is one profile mutation. Only the fields relevant to
// the named action are serialized.
type CustomerAction struct {
	Action      string        `json:"action"`
	FirstName   string        `json:"firstName,omitempty"`
	LastName    string        `json:"lastName,omitempty"`
	Email       string        `json:"email,omitempty"`
	DateOfBirth string        `json:"dateOfBirth,omitempty"`
	Address     *AddressDraft `json:"address,omitempty"`
	AddressID   string        `json:"addressId,omitempty"`
}

func SetFirstName(name string) CustomerAction {
	return CustomerAction{Action: "setFirstName", FirstName: name}
}

func SetLastName(name string) CustomerAction {
	return CustomerAction{Action: "setLastName", LastName: name}
}

func ChangeEmail(email string) CustomerAction {
	return CustomerAction{Action: "changeEmail", Email: email}
}

func SetDateOfBirth(dob string) CustomerAction {
	return CustomerAction{Action: "setDateOfBirth", DateOfBirth: dob}
}

func ChangeAddress(addressID string, address AddressDraft) CustomerAction {
	return CustomerAction{Action: "changeAddress", AddressID: addressID, Address: &address}
}

func AddAddress(address AddressDraft) CustomerAction {
	return CustomerAction{Action: "addAddress", Address: &address}
}

func RemoveAddress(addressID string) CustomerAction {
	return CustomerAction{Action: "removeAddress", AddressID: addressID}
}

// Me fetches the profile of the identity behind this handle. Requires a
// token-backed handle; the check happens before any network call.
func (c *Client) Me(ctx context.Context) (*domain.Customer, error) {
	if c.token == "" {
		return nil, domain.ErrUnauthorized
	}
	var customer ctCustomer
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &customer); err != nil {
		return nil, err
	}
	return toCustomer(customer), nil
}

// Signup registers a new customer. A duplicate email surfaces as
// domain.ErrDuplicateEmail.
func (c *Client) Signup(ctx context.Context, draft CustomerDraft) (*domain.Customer, error) {
	var result ctSignInResult
	if err := c.do(ctx, http.MethodPost, "/me/signup", nil, draft, &result); err != nil {
		return nil, err
	}
	return toCustomer(result.Customer), nil
}

func (c *Client) UpdateMe(ctx context.Context, update CustomerUpdate) (*domain.Customer, error) {
	if c.token == "" {
		return nil, domain.ErrUnauthorized
	}
	var customer ctCustomer
	if err := c.do(ctx, http.MethodPost, "/me", nil, update, &customer); err != nil {
		return nil, err
	}
	return toCustomer(customer), nil
}

// ChangeMyPassword changes the account password against the customer's
// current version. A rejected current password surfaces as
// domain.ErrInvalidCredentials.
func (c *Client) ChangeMyPassword(ctx context.Context, version int, currentPassword, newPassword string) (*domain.Customer, error) {
	if c.token == "" {
		return nil, domain.ErrUnauthorized
	}
	body := struct {
		Version         int    `json:"version"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{version, currentPassword, newPassword}

	var customer ctCustomer
	if err := c.do(ctx, http.MethodPost, "/me/password", nil, body, &customer); err != nil {
		if isCurrentPasswordError(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return toCustomer(customer), nil
}

func isCurrentPasswordError(err error) bool {
	var pe *domain.PlatformError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.HasCode("InvalidCurrentPassword") ||
		strings.Contains(pe.Message, "current password")
}
