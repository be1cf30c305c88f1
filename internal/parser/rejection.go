package parser

import (
	"errors"
	"fmt"
)

type Reason string

const (
	ReasonTooFewColumns   Reason = "too_few_columns"
	ReasonInvalidDate     Reason = "invalid_date"
	ReasonMetaRow         Reason = "meta_row"
	ReasonBeforeCutoff    Reason = "before_cutoff"
	ReasonExcludedName    Reason = "excluded_name"
	ReasonInvalidInterval Reason = "invalid_interval"
	ReasonMissingName     Reason = "missing_name"
	ReasonPanic           Reason = "panic"
)

// Rejection reports a row that must not be stored.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("row rejected: %s", r.Reason)
	}
	return fmt.Sprintf("row rejected: %s: %s", r.Reason, r.Detail)
}

func reject(reason Reason, format string, args ...any) error {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from err, or "" when err is not a rejection.
func ReasonOf(err error) Reason {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection.Reason
	}
	return ""
}
