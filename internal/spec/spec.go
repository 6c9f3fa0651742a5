// Package spec defines the DAO deployment specification: the organization's
// token, founding member list, and governance schemes. The spec is authored
// by the user (by hand or through the init wizard), validated here, and then
// passed to the migration engine as an opaque JSON document.
package spec

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Scheme kinds understood by the stock engines.
const (
	SchemeContributionReward = "ContributionReward"
	SchemeRegistrar          = "SchemeRegistrar"
	SchemeGeneric            = "GenericScheme"
)

// DAO is the root of a deployment specification.
type DAO struct {
	OrgName string   `json:"orgName"`
	Token   Token    `json:"token"`
	Members []Member `json:"members"`
	Schemes []Scheme `json:"schemes"`
}

// Token describes the organization's native token.
type Token struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Member is a founding member with an initial token and reputation
// allocation.
type Member struct {
	Address    string  `json:"address"`
	Tokens     float64 `json:"tokens"`
	Reputation float64 `json:"reputation"`
}

// Scheme is one governance scheme to register with the controller. Params
// carry the scheme's voting-machine configuration; their keys are an
// agreement with the engine.
type Scheme struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAddress reports whether s looks like a 20-byte hex chain address.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// Marshal renders the spec as the canonical JSON document handed to the
// engine.
func (d *DAO) Marshal() (json.RawMessage, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deployment spec: %w", err)
	}
	return data, nil
}
