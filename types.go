package docmill

import (
	"fmt"
	"strings"
	"time"
)

// Operation identifies a document kind produced for a record.
type Operation string

// Known operations.
const (
	OperationReceipt Operation = "receipt"
	OperationIDCard  Operation = "id_card"
)

// Operations returns all known operations in stable order.
func Operations() []Operation {
	return []Operation{OperationReceipt, OperationIDCard}
}

// ParseOperation converts a string to a known Operation (case-insensitive).
func ParseOperation(s string) (Operation, error) {
	switch Operation(strings.ToLower(strings.TrimSpace(s))) {
	case OperationReceipt:
		return OperationReceipt, nil
	case OperationIDCard:
		return OperationIDCard, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: receipt, id_card)", ErrUnknownOperation, s)
	}
}

// Filename derives the artifact filename for a record ID.
// Derivation is deterministic so re-runs overwrite instead of duplicate.
func (o Operation) Filename(recordID string) string {
	id := sanitizeID(recordID)
	switch o {
	case OperationIDCard:
		return "id_card_" + id + ".png"
	default:
		return "receipt_" + id + ".pdf"
	}
}

// sanitizeID maps a record ID to a filesystem-safe filename fragment.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '-'
		}
	}, id)
}

// Record is one unit of input work. The batch core treats it as opaque;
// business fields are consumed only by the renderer. Records are owned by
// the caller and never mutated.
type Record struct {
	ID             string   `json:"student_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	Course         string   `json:"course"`
	FeeAmount      float64  `json:"fee_amount"`
	Currency       string   `json:"currency"`
	Country        string   `json:"country"`
	PhotoURL       string   `json:"photo_url"`
	PhotoFallbacks []string `json:"photo_fallbacks,omitempty"`
	TransactionID  string   `json:"transaction_id"`
	EnrollmentDate string   `json:"enrollment_date"`
	ExpiryDate     string   `json:"expiry_date"`
}

// Validate checks that the record can be processed.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyRecordID
	}
	return nil
}

// Fetch policy defaults.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultRetryCount   = 3
	DefaultBackoffBase  = 500 * time.Millisecond
	DefaultCacheSize    = 100
)

// FetchPolicy bounds a single resource fetch: per-attempt timeout, retry
// count per source, and the base for linear backoff between attempts.
type FetchPolicy struct {
	Timeout     time.Duration // per-attempt bound (required, > 0)
	RetryCount  int           // retries per source after the first attempt (>= 0)
	BackoffBase time.Duration // wait between attempts = BackoffBase * attemptIndex
}

// DefaultFetchPolicy returns the policy used when none is configured.
func DefaultFetchPolicy() FetchPolicy {
	return FetchPolicy{
		Timeout:     DefaultFetchTimeout,
		RetryCount:  DefaultRetryCount,
		BackoffBase: DefaultBackoffBase,
	}
}

// Validate checks policy invariants.
func (p FetchPolicy) Validate() error {
	if p.Timeout <= 0 {
		return fmt.Errorf("%w: %v (must be positive)", ErrInvalidTimeout, p.Timeout)
	}
	if p.RetryCount < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidRetryCount, p.RetryCount)
	}
	if p.BackoffBase < 0 {
		return fmt.Errorf("%w: %v (must be >= 0)", ErrInvalidBackoff, p.BackoffBase)
	}
	return nil
}

// ImageSize is a requested resource size in pixels.
type ImageSize struct {
	Width  int
	Height int
}

// DefaultPlaceholderSize is used when the caller does not specify a size.
var DefaultPlaceholderSize = ImageSize{Width: 400, Height: 300}

// JobResult is the outcome of processing one record. Exactly one of
// Artifacts / Err describes the terminal state, never both.
type JobResult struct {
	RecordID  string
	Artifacts []string // paths of durably written outputs, in operation order
	Err       error    // non-nil iff the job failed
	Duration  time.Duration
}

// Failed reports whether the job ended in failure.
func (r JobResult) Failed() bool {
	return r.Err != nil
}

// JobError pairs a failed record with its reason.
type JobError struct {
	RecordID string
	Err      error
}

func (e JobError) String() string {
	return fmt.Sprintf("%s: %v", e.RecordID, e.Err)
}

// BatchReport aggregates the outcome of one ProcessBatch call. Errors
// preserves completion order, which varies across runs. Artifacts is the
// union of outputs across succeeded jobs. The report is constructed by the
// coordinator and never mutated after return.
type BatchReport struct {
	Succeeded    int
	Failed       int
	NotAttempted int // records skipped after cancellation
	Errors       []JobError
	Artifacts    []string
}

// ProgressEvent reports one completed job. Events are delivered exactly
// once per job, in completion order.
type ProgressEvent struct {
	Completed int // jobs finished so far, strictly increasing
	Total     int
	Last      JobResult
}

// ProgressFunc receives progress events. The coordinator serializes calls,
// so implementations need no locking of their own.
type ProgressFunc func(ProgressEvent)
