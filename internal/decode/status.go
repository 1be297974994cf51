// Package decode turns bubble scores into field values.
package decode

// Status is the outcome of decoding one field. Exactly one status holds.
type Status int

const (
	StatusOK Status = iota
	StatusBlank
	StatusAmbiguous
	StatusMulti
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBlank:
		return "BLANK"
	case StatusAmbiguous:
		return "AMBIGUOUS"
	case StatusMulti:
		return "MULTI"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status as its upper-case name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Statuses lists every status in declaration order.
func Statuses() []Status {
	return []Status{StatusOK, StatusBlank, StatusAmbiguous, StatusMulti}
}
