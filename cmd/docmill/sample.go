package main

import (
	"errors"
	"fmt"

	"github.com/alnah/go-docmill/internal/roster"
)

// ErrInvalidCount reports a non-positive sample record count.
var ErrInvalidCount = errors.New("invalid record count")

// runSample generates a sample roster for demos and smoke tests.
func runSample(flags *sampleFlags, env *Environment) error {
	if flags.count <= 0 {
		return fmt.Errorf("%w: %d (must be > 0)", ErrInvalidCount, flags.count)
	}

	records := roster.Sample(flags.count, env.Now())
	if err := roster.Write(flags.output, records); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}

	fmt.Fprintf(env.Stdout, "Wrote %d records to %s\n", len(records), flags.output)
	return nil
}
