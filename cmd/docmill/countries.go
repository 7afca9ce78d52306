package main

import (
	"fmt"

	"github.com/alnah/go-docmill/internal/locales"
)

// runCountries lists supported countries with their billing locale data.
// Records from other countries still process, falling back to USD.
func runCountries(env *Environment) error {
	fmt.Fprintf(env.Stdout, "%-14s %-8s %-9s %s\n", "COUNTRY", "LOCALE", "CURRENCY", "SYMBOL")
	for _, name := range locales.Countries() {
		info := locales.Lookup(name)
		fmt.Fprintf(env.Stdout, "%-14s %-8s %-9s %s\n", name, info.Locale, info.Currency, info.Symbol)
	}
	return nil
}
