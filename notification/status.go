package notification

/* Status is the normalized payment state reported by a gateway
 * Each gateway maps its own vocabulary onto these values
 */
type Status int

const (
	Unknown Status = iota
	Pending
	Completed
	Failed
	Refunded
	Reversed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Refunded:
		return "refunded"
	case Reversed:
		return "reversed"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from its string representation
func NewStatus(s string) Status {
	switch s {
	case "pending":
		return Pending
	case "completed":
		return Completed
	case "failed":
		return Failed
	case "refunded":
		return Refunded
	case "reversed":
		return Reversed
	default:
		return Unknown
	}
}

// IsFinal returns true if no further notification is expected to change the payment
func (s Status) IsFinal() bool {
	return s == Completed || s == Failed || s == Refunded || s == Reversed
}
