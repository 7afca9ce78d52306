// Package roster loads student records from JSON roster files and
// generates sample rosters for demos and smoke tests.
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	docmill "github.com/alnah/go-docmill"
	"github.com/alnah/go-docmill/internal/locales"
)

// Sentinel errors for roster operations.
var (
	ErrRosterNotFound = errors.New("roster file not found")
	ErrRosterParse    = errors.New("failed to parse roster")
)

// MaxRosterSize limits roster files to 64 MB to prevent memory exhaustion.
const MaxRosterSize = 64 << 20

const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// rosterDoc is the object form of a roster file.
type rosterDoc struct {
	Students []docmill.Record `json:"students"`
}

// Load reads and parses a roster file.
func Load(path string) ([]docmill.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRosterNotFound, path)
		}
		return nil, fmt.Errorf("reading roster file: %w", err)
	}
	if info.Size() > MaxRosterSize {
		return nil, fmt.Errorf("%w: file is %d bytes, max %d", ErrRosterParse, info.Size(), MaxRosterSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- roster path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRosterNotFound, path)
		}
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	return Parse(data)
}

// Parse decodes roster JSON. Both a bare array of records and an object
// with a "students" key are accepted.
func Parse(data []byte) ([]docmill.Record, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrRosterParse)
	}

	if trimmed[0] == '[' {
		var records []docmill.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRosterParse, err)
		}
		return records, nil
	}

	var doc rosterDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterParse, err)
	}
	if doc.Students == nil {
		return nil, fmt.Errorf(`%w: missing "students" key`, ErrRosterParse)
	}
	return doc.Students, nil
}

// Write saves records to path in the canonical object form.
func Write(path string, records []docmill.Record) error {
	data, err := json.MarshalIndent(rosterDoc{Students: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding roster: %w", err)
	}
	data = append(data, '\n')

	// #nosec G306 -- roster files are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("writing roster file: %w", err)
	}
	return nil
}

// Sample data pools. Name pairs cross deterministically so repeated runs
// produce the same roster.
var (
	sampleFirstNames = []string{
		"Aarav", "Maria", "Wei", "Fatima", "James",
		"Yuki", "Lucas", "Amara", "Sofia", "Omar",
	}
	sampleLastNames = []string{
		"Sharma", "Garcia", "Chen", "Hassan", "Smith",
		"Tanaka", "Silva", "Okafor", "Rossi", "Kim",
	}
	sampleCourses = []string{
		"Bachelor of Technology in Computer Science",
		"Bachelor of Science in Mathematics",
		"Bachelor of Science in Physics",
		"Master of Science in Computer Science",
		"Master of Science in Data Science",
	}
)

// Sample generates n deterministic records rotating through name, course,
// and country pools. Photo URLs point at a seeded placeholder service so
// each student gets a stable, distinct photo. now drives the student and
// transaction identifiers and the enrollment window.
func Sample(n int, now time.Time) []docmill.Record {
	if n <= 0 {
		return nil
	}

	countries := locales.Countries()
	year := now.Format("2006")
	records := make([]docmill.Record, 0, n)

	for i := 0; i < n; i++ {
		first := sampleFirstNames[i%len(sampleFirstNames)]
		last := sampleLastNames[(i/len(sampleFirstNames)+i)%len(sampleLastNames)]
		country := countries[i%len(countries)]
		loc := locales.Lookup(country)

		records = append(records, docmill.Record{
			ID:             fmt.Sprintf("STU-%s-%04d", year, i+1),
			Name:           first + " " + last,
			Email:          fmt.Sprintf("%s.%s%d@students.example.edu", strings.ToLower(first), strings.ToLower(last), i+1),
			Course:         sampleCourses[i%len(sampleCourses)],
			FeeAmount:      1250 + float64(i%8)*250,
			Currency:       loc.Currency,
			Country:        country,
			PhotoURL:       fmt.Sprintf("https://picsum.photos/seed/docmill-%04d/400/300", i+1),
			TransactionID:  fmt.Sprintf("TXN-%s-%04d", year, i+1),
			EnrollmentDate: now.Format("2006-01-02"),
			ExpiryDate:     now.AddDate(4, 0, 0).Format("2006-01-02"),
		})
	}
	return records
}
