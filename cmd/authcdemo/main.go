// Copyright (c) 2025 Justin Cranford
//
//

// Package main is the entrypoint for the authcdemo demonstration
// service.
package main

import (
	"os"

	demo "github.com/Autochartist/yosai/internal/cmd/authcdemo"
)

func main() {
	os.Exit(demo.Demo(os.Args[1:], os.Stdout, os.Stderr))
}
