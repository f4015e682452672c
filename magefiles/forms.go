//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Fetch downloads the finance forms into downloaded_forms/.
func Fetch() error {
	mg.Deps(Build)
	return sh.RunV("./bin/formfinder", "fetch")
}

// Match prompts for a request and suggests three forms.
func Match() error {
	mg.Deps(Build)
	return sh.RunV("./bin/formfinder", "match", "--mode", "shortlist")
}
