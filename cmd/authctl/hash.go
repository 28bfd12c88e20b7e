// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcr-api/bcr/internal/platform/sec"
)

var errMismatch = errors.New("authctl: password does not match")

// NewHashCmd creates the hash subcommand.
func NewHashCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash [password]",
		Short: "Hash a password with bcrypt",
		Long: `Hash a password with bcrypt and print the modular hash string.
Without an argument the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := argOrLine(args, 0, cmd.InOrStdin())
			if err != nil {
				return err
			}

			hasher, err := sec.NewBcryptHasher(cost, sec.NewLane(1, nil))
			if err != nil {
				return err
			}

			hashed, err := hasher.Hash(cmd.Context(), password)
			if err != nil {
				return fmt.Errorf("hash: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return err
		},
	}

	cmd.Flags().IntVar(&cost, "cost", sec.DefaultCost, "bcrypt cost factor")

	return cmd
}

// NewVerifyCmd creates the verify subcommand.
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <hash> [password]",
		Short: "Check a password against a bcrypt hash",
		Long: `Check a password against a bcrypt hash. Prints "match" and exits 0,
or fails with a non-zero exit code.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := argOrLine(args, 1, cmd.InOrStdin())
			if err != nil {
				return err
			}

			hasher, err := sec.NewBcryptHasher(sec.DefaultCost, nil)
			if err != nil {
				return err
			}

			if !hasher.Verify(cmd.Context(), password, args[0]) {
				return errMismatch
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "match")
			return err
		},
	}
}
