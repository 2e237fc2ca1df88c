package testutil

import (
	"fmt"

	"github.com/skosovsky/datapilot"
)

// NewTestRegistry builds a registry from the given commands, panicking on a
// build failure. Suitable for tests where a duplicate name is a bug in the
// test itself.
func NewTestRegistry(commands ...datapilot.Command) *datapilot.Registry {
	reg, err := datapilot.BuildRegistry(datapilot.Source(commands))
	if err != nil {
		panic(fmt.Sprintf("testutil: build registry: %v", err))
	}
	return reg
}
