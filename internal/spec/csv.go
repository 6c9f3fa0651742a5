package spec

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadMembersCSV reads a founding-member list from a CSV file with an
// address,tokens,reputation header (column order is free; tokens and
// reputation are optional columns).
func LoadMembersCSV(path string) ([]Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open members file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadMembersCSV(f)
}

// ReadMembersCSV parses a member list from CSV content.
func ReadMembersCSV(r io.Reader) ([]Member, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("members file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read members header: %w", err)
	}

	addrCol, tokensCol, repCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "address":
			addrCol = i
		case "tokens":
			tokensCol = i
		case "reputation":
			repCol = i
		}
	}
	if addrCol == -1 {
		return nil, fmt.Errorf("members file has no address column")
	}

	var members []Member
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read members row %d: %w", line, err)
		}

		member := Member{Address: strings.TrimSpace(record[addrCol])}
		if !IsAddress(member.Address) {
			return nil, fmt.Errorf("row %d: invalid address %q", line, member.Address)
		}
		if tokensCol >= 0 && tokensCol < len(record) && strings.TrimSpace(record[tokensCol]) != "" {
			member.Tokens, err = strconv.ParseFloat(strings.TrimSpace(record[tokensCol]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid tokens value: %w", line, err)
			}
		}
		if repCol >= 0 && repCol < len(record) && strings.TrimSpace(record[repCol]) != "" {
			member.Reputation, err = strconv.ParseFloat(strings.TrimSpace(record[repCol]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid reputation value: %w", line, err)
			}
		}
		members = append(members, member)
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("members file has no rows")
	}
	return members, nil
}
