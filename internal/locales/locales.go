// Package locales maps student countries to billing locale data: the BCP 47
// locale tag, the ISO 4217 currency code, and the symbol printed before
// amounts on receipts.
package locales

import "sort"

// Info describes how to localize money for one country.
type Info struct {
	Locale   string
	Currency string
	Symbol   string
}

// byCountry is keyed by the country names accepted in roster records.
var byCountry = map[string]Info{
	"India":        {Locale: "en_IN", Currency: "INR", Symbol: "₹"},
	"USA":          {Locale: "en_US", Currency: "USD", Symbol: "$"},
	"UK":           {Locale: "en_GB", Currency: "GBP", Symbol: "£"},
	"Canada":       {Locale: "en_CA", Currency: "CAD", Symbol: "CAD $"},
	"Australia":    {Locale: "en_AU", Currency: "AUD", Symbol: "AUD $"},
	"Singapore":    {Locale: "en_SG", Currency: "SGD", Symbol: "SGD $"},
	"Philippines":  {Locale: "en_PH", Currency: "PHP", Symbol: "₱"},
	"Germany":      {Locale: "de_DE", Currency: "EUR", Symbol: "€"},
	"France":       {Locale: "fr_FR", Currency: "EUR", Symbol: "€"},
	"Spain":        {Locale: "es_ES", Currency: "EUR", Symbol: "€"},
	"Italy":        {Locale: "it_IT", Currency: "EUR", Symbol: "€"},
	"Netherlands":  {Locale: "nl_NL", Currency: "EUR", Symbol: "€"},
	"Sweden":       {Locale: "sv_SE", Currency: "SEK", Symbol: "kr"},
	"Norway":       {Locale: "nb_NO", Currency: "NOK", Symbol: "kr"},
	"Denmark":      {Locale: "da_DK", Currency: "DKK", Symbol: "kr"},
	"Japan":        {Locale: "ja_JP", Currency: "JPY", Symbol: "¥"},
	"South Korea":  {Locale: "ko_KR", Currency: "KRW", Symbol: "₩"},
	"China":        {Locale: "zh_CN", Currency: "CNY", Symbol: "¥"},
	"Brazil":       {Locale: "pt_BR", Currency: "BRL", Symbol: "R$"},
	"Mexico":       {Locale: "es_MX", Currency: "MXN", Symbol: "$"},
	"Argentina":    {Locale: "es_AR", Currency: "ARS", Symbol: "$"},
	"South Africa": {Locale: "en_ZA", Currency: "ZAR", Symbol: "R"},
	"New Zealand":  {Locale: "en_NZ", Currency: "NZD", Symbol: "NZ$"},
	"Switzerland":  {Locale: "de_CH", Currency: "CHF", Symbol: "CHF"},
	"Belgium":      {Locale: "fr_BE", Currency: "EUR", Symbol: "€"},
	"Austria":      {Locale: "de_AT", Currency: "EUR", Symbol: "€"},
	"Finland":      {Locale: "fi_FI", Currency: "EUR", Symbol: "€"},
	"Poland":       {Locale: "pl_PL", Currency: "PLN", Symbol: "zł"},
}

// Lookup returns the locale data for a country, falling back to USA for
// unknown or empty names so receipts always carry a currency.
func Lookup(country string) Info {
	if info, ok := byCountry[country]; ok {
		return info
	}
	return byCountry["USA"]
}

// Known reports whether a country has an explicit locale entry.
func Known(country string) bool {
	_, ok := byCountry[country]
	return ok
}

// Countries returns every supported country name in alphabetical order.
func Countries() []string {
	names := make([]string, 0, len(byCountry))
	for name := range byCountry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
