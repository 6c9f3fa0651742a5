package spec

import (
	"errors"
	"strings"
	"testing"
)

const validSpec = `{
	"orgName": "Genesis",
	"token": {"name": "Genesis Token", "symbol": "GEN", "decimals": 18},
	"members": [
		{"address": "0x1111111111111111111111111111111111111111", "tokens": 100, "reputation": 100}
	],
	"schemes": [
		{"kind": "ContributionReward", "params": {"votingMachine": "GenesisProtocol"}}
	]
}`

func TestValidateAcceptsCompleteSpec(t *testing.T) {
	if err := Validate([]byte(validSpec)); err != nil {
		t.Fatalf("expected valid spec, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want string
	}{
		{
			"missing orgName",
			`{"token": {"name": "T", "symbol": "T"}, "members": [{"address": "0x1111111111111111111111111111111111111111"}]}`,
			"orgName",
		},
		{
			"empty members",
			`{"orgName": "X", "token": {"name": "T", "symbol": "T"}, "members": []}`,
			"members",
		},
		{
			"bad address",
			`{"orgName": "X", "token": {"name": "T", "symbol": "T"}, "members": [{"address": "not-an-address"}]}`,
			"address",
		},
		{
			"unknown scheme kind",
			`{"orgName": "X", "token": {"name": "T", "symbol": "T"}, "members": [{"address": "0x1111111111111111111111111111111111111111"}], "schemes": [{"kind": "MysteryScheme"}]}`,
			"kind",
		},
		{
			"decimals out of range",
			`{"orgName": "X", "token": {"name": "T", "symbol": "T", "decimals": 42}, "members": [{"address": "0x1111111111111111111111111111111111111111"}]}`,
			"decimals",
		},
		{
			"symbol too long",
			`{"orgName": "X", "token": {"name": "T", "symbol": "WAYTOOLONGSYMBOL"}, "members": [{"address": "0x1111111111111111111111111111111111111111"}]}`,
			"symbol",
		},
		{
			"negative tokens",
			`{"orgName": "X", "token": {"name": "T", "symbol": "T"}, "members": [{"address": "0x1111111111111111111111111111111111111111", "tokens": -5}]}`,
			"tokens",
		},
		{
			"unknown top-level field",
			`{"orgName": "X", "token": {"name": "T", "symbol": "T"}, "members": [{"address": "0x1111111111111111111111111111111111111111"}], "surprise": true}`,
			"surprise",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.spec))
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestValidateDuplicateMemberAddress(t *testing.T) {
	dup := `{
		"orgName": "X",
		"token": {"name": "T", "symbol": "T"},
		"members": [
			{"address": "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
			{"address": "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
		]
	}`

	err := Validate([]byte(dup))
	if err == nil {
		t.Fatal("expected duplicate address error, got nil")
	}
	// Comparison is case-insensitive: hex addresses differ only in case
	if !strings.Contains(err.Error(), "duplicate address") {
		t.Errorf("expected duplicate address issue, got %q", err.Error())
	}
}

func TestValidateDuplicateSchemeKind(t *testing.T) {
	dup := `{
		"orgName": "X",
		"token": {"name": "T", "symbol": "T"},
		"members": [{"address": "0x1111111111111111111111111111111111111111"}],
		"schemes": [
			{"kind": "SchemeRegistrar"},
			{"kind": "SchemeRegistrar"}
		]
	}`

	err := Validate([]byte(dup))
	if err == nil {
		t.Fatal("expected duplicate scheme error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate scheme") {
		t.Errorf("expected duplicate scheme issue, got %q", err.Error())
	}
}

func TestValidationErrorAggregatesIssues(t *testing.T) {
	bad := `{"token": {"name": "T"}, "members": []}`

	err := Validate([]byte(bad))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Issues) < 2 {
		t.Errorf("expected multiple issues, got %v", verr.Issues)
	}
}

func TestIsAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"0x1111111111111111111111111111111111111111", true},
		{"0xAbCdEf0123456789aBcDeF0123456789abcdef01", true},
		{"0x111111111111111111111111111111111111111", false},
		{"0x11111111111111111111111111111111111111111", false},
		{"1111111111111111111111111111111111111111", false},
		{"0xGGGG111111111111111111111111111111111111", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAddress(tt.addr); got != tt.want {
			t.Errorf("IsAddress(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
