// Package main is the entry point for the ecommerce-companion CLI.
package main

import (
	"os"

	"github.com/yusefshaaban/Ecommerce-Companion/cmd/ecommerce-companion/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
