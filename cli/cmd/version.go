package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ardnew/skoobert/pkg"
)

// Version prints the program name and version.
type Version struct {
	out io.Writer
}

// Run executes the version command.
func (v *Version) Run(context.Context) error {
	_, err := fmt.Fprintln(outputOf(v.out), pkg.Name, pkg.Version())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
