// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/bcr-api/bcr/internal/platform/sec"
)

// signingEnv is the slice of the API environment the token commands need.
type signingEnv struct {
	Secret string `env:"JWT_SIGNATURE_KEY,required,unset"`
}

// loadCodec builds a codec from JWT_SIGNATURE_KEY.
func loadCodec() (*sec.JWTCodec, error) {
	var cfg signingEnv
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	return sec.NewTokenCodec(cfg.Secret)
}

// NewTokenCmd creates the token command group.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode or decode bearer tokens",
	}

	cmd.AddCommand(newTokenEncodeCmd())
	cmd.AddCommand(newTokenDecodeCmd())

	return cmd
}

func newTokenEncodeCmd() *cobra.Command {
	var payload sec.TokenPayload

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Sign a token payload",
		Long: `Sign a token payload and print the token.

Example:
  authctl token encode --id 1 --name radian --email radian@gmail.com --role-id 1 --role ADMIN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codec, err := loadCodec()
			if err != nil {
				return err
			}

			token, err := codec.Encode(payload)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&payload.ID, "id", 0, "user id")
	flags.StringVar(&payload.Name, "name", "", "display name")
	flags.StringVar(&payload.Email, "email", "", "email address")
	flags.StringVar(&payload.Image, "image", "", "avatar URL")
	flags.Int64Var(&payload.Role.ID, "role-id", 0, "role id")
	flags.StringVar(&payload.Role.Name, "role", sec.RoleCustomer, "role name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newTokenDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [token]",
		Short: "Verify a token and print its payload as JSON",
		Long: `Verify a token and print its payload as JSON.
Without an argument the token is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := argOrLine(args, 0, cmd.InOrStdin())
			if err != nil {
				return err
			}

			codec, err := loadCodec()
			if err != nil {
				return err
			}

			payload, err := codec.Decode(token)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(payload)
		},
	}
}
