//go:build tools

package main

import (
	_ "github.com/a-h/templ/cmd/templ"
	_ "go.uber.org/mock/mockgen"
)
