// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var errEmptyInput = errors.New("authctl: empty input")

// NewRootCmd creates the root command for the authctl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "authctl - BCR credential and token tooling",
		Long: `authctl hashes and verifies passwords with bcrypt and encodes or
decodes the HS256 bearer tokens issued by the BCR API.

Token commands read the signing key from JWT_SIGNATURE_KEY.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewHashCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewTokenCmd())

	return cmd
}

// argOrLine returns args[index] when present, otherwise the first line of in.
func argOrLine(args []string, index int, in io.Reader) (string, error) {
	if index < len(args) {
		return args[index], nil
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errEmptyInput
	}

	line := strings.TrimRight(scanner.Text(), "\r\n")
	if line == "" {
		return "", errEmptyInput
	}
	return line, nil
}
