// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

//go:build tools

// Package tools pins the development tools in their own module, so they never
// leak into the dependencies of cellatomic:
//
//	go run -modfile=tools/go.mod gotest.tools/gotestsum -- -race ./...
//	go run -modfile=tools/go.mod github.com/dkorunic/betteralign/cmd/betteralign ./...
package tools

import (
	_ "github.com/dkorunic/betteralign/cmd/betteralign"
	_ "golang.org/x/tools/cmd/stringer"
	_ "golang.org/x/vuln/cmd/govulncheck"
	_ "gotest.tools/gotestsum"
)
