// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command authctl is an operator tool for the BCR credential subsystem.
//
// It hashes and checks passwords with the same bcrypt settings as the API,
// and encodes or inspects bearer tokens signed with JWT_SIGNATURE_KEY.
package main

import (
	"os"

	"github.com/bcr-api/bcr/internal/platform/constants"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = constants.AppVersion

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
