//go:build tools
// +build tools

package main

import (
	_ "github.com/matryer/moq"
	_ "github.com/mgechev/revive"
)
