package notification

import (
	"math"

	"github.com/marcelsud/notification-inbox/money"
)

/* Gateway is what every concrete gateway notification must supply
 * The base Notification has no Status or Gross of its own: a variant
 * that forgets one of them does not compile
 */
type Gateway interface {
	Status() Status
	// Gross is the transaction amount in major currency units, e.g. 19.99
	Gross() float64
}

// State is the lifecycle state of a Notification
type State int

const (
	Empty State = iota
	Populated
)

// String returns the string representation of the state
func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "empty"
}

/* Notification holds one inbound callback: the raw body, its decoded fields
 * and the sender policy of the gateway it belongs to
 * Variants embed *Notification and add Status and Gross on top
 * An instance belongs to a single request; it is not safe for concurrent mutation
 */
type Notification struct {
	raw       string
	fields    Fields
	state     State
	allowList AllowList
	mode      Mode
	options   map[string]string
}

// Option configures a Notification at construction
type Option func(*Notification)

// WithAllowList sets the networks trusted to send this notification
func WithAllowList(list AllowList) Option {
	return func(n *Notification) {
		n.allowList = list
	}
}

// WithMode sets the integration mode used by ValidSender
func WithMode(mode Mode) Option {
	return func(n *Notification) {
		n.mode = mode
	}
}

// WithOption stores a gateway specific setting, read back with Option
func WithOption(key, value string) Option {
	return func(n *Notification) {
		if n.options == nil {
			n.options = make(map[string]string)
		}
		n.options[key] = value
	}
}

// New builds a Notification and parses raw right away.
// Without WithMode the notification behaves as in production.
func New(raw []byte, opts ...Option) *Notification {
	n := &Notification{mode: Production}
	for _, opt := range opts {
		opt(n)
	}
	n.Parse(raw)
	return n
}

// Parse replaces the raw payload and the fields together
func (n *Notification) Parse(raw []byte) {
	n.Empty()
	n.fields, n.raw = Parse(raw)
	n.state = Populated
}

// Empty resets the notification so it can be reused with Parse
func (n *Notification) Empty() {
	n.fields = Fields{}
	n.raw = ""
	n.state = Empty
}

// Raw returns the payload exactly as received
func (n *Notification) Raw() string {
	return n.raw
}

// Fields returns the decoded payload
func (n *Notification) Fields() Fields {
	return n.fields
}

// Get returns a decoded field, or "" when absent
func (n *Notification) Get(key string) string {
	return n.fields.Get(key)
}

// Option returns a setting passed with WithOption
func (n *Notification) Option(key string) string {
	return n.options[key]
}

// State returns Empty or Populated
func (n *Notification) State() State {
	return n.state
}

// AllowList returns the sender allow-list of the gateway
func (n *Notification) AllowList() AllowList {
	return n.allowList
}

// Mode returns the integration mode the notification was built with
func (n *Notification) Mode() Mode {
	return n.mode
}

type senderOptions struct {
	ignoreTestMode bool
}

// SenderOption tunes a ValidSender call
type SenderOption func(*senderOptions)

// IgnoreTestMode enforces the allow-list even in test mode
func IgnoreTestMode() SenderOption {
	return func(o *senderOptions) {
		o.ignoreTestMode = true
	}
}

// ValidSender checks ip against the gateway allow-list
func (n *Notification) ValidSender(ip string, opts ...SenderOption) bool {
	var o senderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return ValidSender(ip, n.allowList, n.mode, o.ignoreTestMode)
}

// GrossCents converts Gross to minor units, rounding half away from zero.
// The product is computed in floating point, so amounts that are not exactly
// representable can land one cent off (1.005 gives 100).
// Amounts whose cents do not fit in an int64 are treated like a non-numeric
// gross and yield 0.
func GrossCents(g Gateway) int64 {
	cents := math.Round(g.Gross() * 100.0)
	if cents >= 1<<63 || cents < -(1<<63) {
		return 0
	}
	return int64(cents)
}

type currencied interface {
	Currency() string
}

// Amount combines GrossCents with the gateway currency. When the gateway has
// no currency or reports one that is not a valid ISO 4217 code, the amount is
// returned without a currency instead.
func Amount(g Gateway) money.Amount {
	cents := GrossCents(g)
	if c, ok := g.(currencied); ok {
		if amount, err := money.New(cents, c.Currency()); err == nil {
			return amount
		}
	}
	return money.NewWithoutCurrency(cents)
}
