package roster_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	docmill "github.com/alnah/go-docmill"
	"github.com/alnah/go-docmill/internal/locales"
	"github.com/alnah/go-docmill/internal/roster"
)

// Notes:
// - The MaxRosterSize guard is not exercised; creating a 64 MB fixture
//   is not worth the test time for a straight size comparison.

// =============================================================================
// Parse Tests
// =============================================================================

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{
			name:  "object form with students key",
			input: `{"students": [{"student_id": "STU-001", "name": "Aarav Sharma"}]}`,
			want:  1,
		},
		{
			name:  "bare array form",
			input: `[{"student_id": "STU-001", "name": "Aarav Sharma"}, {"student_id": "STU-002", "name": "Maria Garcia"}]`,
			want:  2,
		},
		{
			name:  "empty students list",
			input: `{"students": []}`,
			want:  0,
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  0,
		},
		{
			name:  "leading whitespace before array",
			input: "\n\t [{\"student_id\": \"STU-001\", \"name\": \"Wei Chen\"}]",
			want:  1,
		},
		{
			name:    "empty input returns ErrRosterParse",
			input:   "",
			wantErr: roster.ErrRosterParse,
		},
		{
			name:    "whitespace only returns ErrRosterParse",
			input:   "  \n\t ",
			wantErr: roster.ErrRosterParse,
		},
		{
			name:    "object without students key returns ErrRosterParse",
			input:   `{"records": []}`,
			wantErr: roster.ErrRosterParse,
		},
		{
			name:    "malformed JSON returns ErrRosterParse",
			input:   `{"students": [`,
			wantErr: roster.ErrRosterParse,
		},
		{
			name:    "malformed array returns ErrRosterParse",
			input:   `[{"student_id": }]`,
			wantErr: roster.ErrRosterParse,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			records, err := roster.Parse([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("len(records) = %d, want %d", len(records), tt.want)
			}
		})
	}
}

func TestParse_DecodesRecordFields(t *testing.T) {
	t.Parallel()

	input := `{"students": [{
		"student_id": "STU-2025-0001",
		"name": "Aarav Sharma",
		"email": "aarav@example.edu",
		"course": "Bachelor of Technology in Computer Science",
		"fee_amount": 1500.50,
		"currency": "INR",
		"country": "India",
		"photo_url": "https://example.com/photo.jpg",
		"photo_fallbacks": ["https://fallback.example.com/photo.jpg"],
		"transaction_id": "TXN-2025-0001",
		"enrollment_date": "2025-08-01",
		"expiry_date": "2029-08-01"
	}]}`

	records, err := roster.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	rec := records[0]
	if rec.ID != "STU-2025-0001" {
		t.Errorf("ID = %q, want %q", rec.ID, "STU-2025-0001")
	}
	if rec.Name != "Aarav Sharma" {
		t.Errorf("Name = %q, want %q", rec.Name, "Aarav Sharma")
	}
	if rec.FeeAmount != 1500.50 {
		t.Errorf("FeeAmount = %v, want 1500.50", rec.FeeAmount)
	}
	if rec.Country != "India" {
		t.Errorf("Country = %q, want %q", rec.Country, "India")
	}
	if len(rec.PhotoFallbacks) != 1 {
		t.Errorf("len(PhotoFallbacks) = %d, want 1", len(rec.PhotoFallbacks))
	}
}

func TestParse_IgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	input := `{"students": [{"student_id": "STU-001", "name": "Test", "blood_group": "O+"}]}`
	records, err := roster.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(records))
	}
}

// =============================================================================
// Load Tests
// =============================================================================

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads roster file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "students.json")
		content := `{"students": [{"student_id": "STU-001", "name": "Aarav Sharma"}]}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		records, err := roster.Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(records) != 1 {
			t.Errorf("len(records) = %d, want 1", len(records))
		}
	})

	t.Run("missing file returns ErrRosterNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := roster.Load(filepath.Join(t.TempDir(), "missing.json"))
		if !errors.Is(err, roster.ErrRosterNotFound) {
			t.Errorf("error = %v, want ErrRosterNotFound", err)
		}
	})

	t.Run("invalid JSON returns ErrRosterParse", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "broken.json")
		if err := os.WriteFile(path, []byte(`{"students": [`), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := roster.Load(path)
		if !errors.Is(err, roster.ErrRosterParse) {
			t.Errorf("error = %v, want ErrRosterParse", err)
		}
	})

	t.Run("empty file returns ErrRosterParse", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "empty.json")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := roster.Load(path)
		if !errors.Is(err, roster.ErrRosterParse) {
			t.Errorf("error = %v, want ErrRosterParse", err)
		}
	})
}

// =============================================================================
// Write Tests
// =============================================================================

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	want := []docmill.Record{
		{ID: "STU-001", Name: "Aarav Sharma", Country: "India", FeeAmount: 1250},
		{ID: "STU-002", Name: "Maria Garcia", Country: "Spain", FeeAmount: 1500},
	}

	if err := roster.Write(path, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := roster.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len(records) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("records[%d].ID = %q, want %q", i, got[i].ID, want[i].ID)
		}
		if got[i].Name != want[i].Name {
			t.Errorf("records[%d].Name = %q, want %q", i, got[i].Name, want[i].Name)
		}
	}
}

func TestWrite_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.json")
	err := roster.Write(path, []docmill.Record{{ID: "STU-001", Name: "Test"}})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// =============================================================================
// Sample Tests
// =============================================================================

func TestSample(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("zero count returns nil", func(t *testing.T) {
		t.Parallel()
		if got := roster.Sample(0, now); got != nil {
			t.Errorf("Sample(0) = %v, want nil", got)
		}
	})

	t.Run("negative count returns nil", func(t *testing.T) {
		t.Parallel()
		if got := roster.Sample(-3, now); got != nil {
			t.Errorf("Sample(-3) = %v, want nil", got)
		}
	})

	t.Run("generates requested count", func(t *testing.T) {
		t.Parallel()
		records := roster.Sample(25, now)
		if len(records) != 25 {
			t.Fatalf("len(records) = %d, want 25", len(records))
		}
	})

	t.Run("records are deterministic", func(t *testing.T) {
		t.Parallel()
		a := roster.Sample(10, now)
		b := roster.Sample(10, now)
		if !reflect.DeepEqual(a, b) {
			t.Error("repeated runs produced different rosters")
		}
	})

	t.Run("identifiers are unique and dated", func(t *testing.T) {
		t.Parallel()
		records := roster.Sample(50, now)
		seen := make(map[string]bool, len(records))
		for _, rec := range records {
			if !strings.HasPrefix(rec.ID, "STU-2025-") {
				t.Errorf("ID = %q, want STU-2025- prefix", rec.ID)
			}
			if seen[rec.ID] {
				t.Errorf("duplicate ID %q", rec.ID)
			}
			seen[rec.ID] = true
		}
	})

	t.Run("records pass validation", func(t *testing.T) {
		t.Parallel()
		for _, rec := range roster.Sample(30, now) {
			if err := rec.Validate(); err != nil {
				t.Errorf("record %s: %v", rec.ID, err)
			}
		}
	})

	t.Run("currency matches country locale", func(t *testing.T) {
		t.Parallel()
		for _, rec := range roster.Sample(30, now) {
			want := locales.Lookup(rec.Country).Currency
			if rec.Currency != want {
				t.Errorf("record %s: Currency = %q, want %q for %s", rec.ID, rec.Currency, want, rec.Country)
			}
		}
	})

	t.Run("enrollment window spans four years", func(t *testing.T) {
		t.Parallel()
		rec := roster.Sample(1, now)[0]
		if rec.EnrollmentDate != "2025-08-01" {
			t.Errorf("EnrollmentDate = %q, want %q", rec.EnrollmentDate, "2025-08-01")
		}
		if rec.ExpiryDate != "2029-08-01" {
			t.Errorf("ExpiryDate = %q, want %q", rec.ExpiryDate, "2029-08-01")
		}
	})
}
