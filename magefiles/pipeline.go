//go:build mage

package main

import "github.com/magefile/mage/sh"

// Run processes the channel's latest matching episode end to end.
func Run() error {
	return sh.RunV("go", "run", cmdPkg, "run")
}

// Link summarizes one video by its watch URL.
func Link(url string) error {
	return sh.RunV("go", "run", cmdPkg, "link", url)
}

// Config prints the effective redacted configuration.
func Config() error {
	return sh.RunV("go", "run", cmdPkg, "config")
}
