// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/betcoin/pollbet/thor"
)

// Kind classifies a failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	// InvalidInput is a local validation failure, it never reaches the network.
	InvalidInput
	// NotFound means the ledger has no record for the requested id.
	NotFound
	// PollClosed means the poll is over at call time.
	PollClosed
	// InvalidOption means the option index is out of range.
	InvalidOption
	// SubmissionRejected means the ledger refused the write before broadcast.
	SubmissionRejected
	// NetworkError means the node is unreachable or answered with garbage.
	NetworkError
	// Timeout means no confirmation arrived within the caller deadline.
	Timeout
	// Rejected means the ledger reverted the submitted transaction.
	Rejected
)

var kindNames = [...]string{
	KindUnknown:        "Unknown",
	InvalidInput:       "InvalidInput",
	NotFound:           "NotFound",
	PollClosed:         "PollClosed",
	InvalidOption:      "InvalidOption",
	SubmissionRejected: "SubmissionRejected",
	NetworkError:       "NetworkError",
	Timeout:            "Timeout",
	Rejected:           "Rejected",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", text)
}

// Error is the error type returned by every poll operation.
type Error struct {
	Kind        Kind
	Op          string
	PollID      *uint64
	OptionIndex *int
	Sender      *thor.Address
	Err         error
}

// NewError creates an error of the given kind raised by op.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf creates an error of the given kind with a formatted cause.
func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// WithPoll returns a copy of e carrying the poll id.
func (e *Error) WithPoll(id uint64) *Error {
	cpy := *e
	cpy.PollID = &id
	return &cpy
}

// WithOption returns a copy of e carrying the option index.
func (e *Error) WithOption(index int) *Error {
	cpy := *e
	cpy.OptionIndex = &index
	return &cpy
}

// WithSender returns a copy of e carrying the sender address.
func (e *Error) WithSender(addr thor.Address) *Error {
	cpy := *e
	cpy.Sender = &addr
	return &cpy
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.PollID != nil {
		fmt.Fprintf(&b, " poll=%d", *e.PollID)
	}
	if e.OptionIndex != nil {
		fmt.Fprintf(&b, " option=%d", *e.OptionIndex)
	}
	if e.Sender != nil {
		fmt.Fprintf(&b, " sender=%s", e.Sender)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: NotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
