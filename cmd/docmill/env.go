package main

import (
	"io"
	"os"
	"time"

	docmill "github.com/alnah/go-docmill"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and service construction.
type Environment struct {
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
	NewService func(opts ...docmill.Option) (*docmill.Service, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		NewService: docmill.New,
	}
}
