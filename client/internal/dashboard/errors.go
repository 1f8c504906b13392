package dashboard

import (
	"fmt"
)

// ProbeError is an unexpected failure while reading the installation state
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("read dashboard state %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// TransferError is a network or filesystem failure while fetching or extracting an archive
type TransferError struct {
	Op  string
	URL string
	Err error
}

func (e *TransferError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies an UpdateError
type ErrorKind int

const (
	// ErrKindTransfer covers every download, extraction or preparation failure
	ErrKindTransfer ErrorKind = iota
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// UpdateError is returned by the Driver when a decision could not be applied
type UpdateError struct {
	Kind     ErrorKind
	Decision Decision
	Err      error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Decision.Kind, e.Kind, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}
