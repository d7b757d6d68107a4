package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is a closed set; every switch over it must list all members.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleFreelancer Role = "FREELANCER"
	RoleClient     Role = "CLIENT"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleFreelancer:
		return RoleFreelancer, nil
	case RoleClient:
		return RoleClient, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

func (p Principal) Is(r Role) bool {
	return p.Role == r
}

// Party is the side a principal takes on a contract.
type Party int

const (
	PartyNone Party = iota
	PartyFreelancer
	PartyClient
)

func (c *Contract) PartyOf(id uuid.UUID) Party {
	switch id {
	case c.FreelancerID:
		return PartyFreelancer
	case c.ClientID:
		return PartyClient
	}
	return PartyNone
}

// Counterpart returns the user on the other side of the contract.
func (c *Contract) Counterpart(p Party) uuid.UUID {
	switch p {
	case PartyFreelancer:
		return c.ClientID
	case PartyClient:
		return c.FreelancerID
	case PartyNone:
	}
	return uuid.Nil
}
