package wizard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/daoforge/daoforge/internal/provider"
	"github.com/daoforge/daoforge/internal/spec"
)

// ValidateEnvironmentName checks if an environment name is valid
func ValidateEnvironmentName(name string) error {
	if name == "" {
		return fmt.Errorf("environment name cannot be empty")
	}

	// Must be alphanumeric or underscore
	for _, ch := range name {
		isValid := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' || ch == '-'
		if !isValid {
			return fmt.Errorf("environment name must contain only letters, numbers, underscores, and hyphens")
		}
	}

	return nil
}

// ValidateRPCURL checks if an RPC endpoint URL is well-formed
func ValidateRPCURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("rpc url cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("rpc url is not a valid URL")
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("rpc url must use http(s) or ws(s)")
	}
	if parsed.Host == "" {
		return fmt.Errorf("rpc url must include a host")
	}

	return nil
}

// ValidateChainID checks if a chain ID is a positive integer
func ValidateChainID(chainID string) error {
	if chainID == "" {
		return fmt.Errorf("chain id cannot be empty")
	}

	id, err := strconv.ParseInt(chainID, 10, 64)
	if err != nil {
		return fmt.Errorf("chain id must be a number")
	}
	if id < 1 {
		return fmt.Errorf("chain id must be positive")
	}

	return nil
}

// ValidateOrgName checks if an organization name is usable
func ValidateOrgName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("organization name cannot be empty")
	}
	return nil
}

// ValidateTokenName checks if a token name is usable
func ValidateTokenName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("token name cannot be empty")
	}
	return nil
}

// ValidateTokenSymbol checks if a token symbol is valid
func ValidateTokenSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("token symbol cannot be empty")
	}
	if len(symbol) > 12 {
		return fmt.Errorf("token symbol must be at most 12 characters")
	}
	for _, ch := range symbol {
		isValid := (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
		if !isValid {
			return fmt.Errorf("token symbol must contain only uppercase letters and numbers")
		}
	}
	return nil
}

// ValidateDecimals checks if token decimals are in the supported range
func ValidateDecimals(decimals string) error {
	if decimals == "" {
		return fmt.Errorf("decimals cannot be empty")
	}

	n, err := strconv.Atoi(decimals)
	if err != nil {
		return fmt.Errorf("decimals must be a number")
	}
	if n < 0 || n > 18 {
		return fmt.Errorf("decimals must be between 0 and 18")
	}

	return nil
}

// ValidateAddress checks if a member address looks like a chain address
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !spec.IsAddress(address) {
		return fmt.Errorf("address must be 0x followed by 40 hex characters")
	}
	return nil
}

// ValidateAmount checks if a token or reputation amount is a non-negative number
func ValidateAmount(amount string) error {
	if amount == "" {
		// Empty means zero allocation
		return nil
	}

	n, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}
	if n < 0 {
		return fmt.Errorf("amount cannot be negative")
	}

	return nil
}

// TestProvider probes the RPC endpoint the way a deployment would resolve it
func TestProvider(rpcURL string) error {
	resolver := &provider.HTTPResolver{RPCURL: rpcURL}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := resolver.Resolve(ctx); err != nil {
		return err
	}
	return nil
}
