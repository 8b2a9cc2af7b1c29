package notification

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// ErrInvalidCIDR is returned when an allow-list entry is not an address or CIDR block
var ErrInvalidCIDR = errors.New("invalid CIDR block")

/* AllowList is the set of networks trusted to send notifications for one gateway
 * It is built once at startup and only read afterwards, so it can be shared
 * between goroutines without locking
 */
type AllowList struct {
	prefixes []netip.Prefix
}

// NewAllowList parses CIDR blocks such as "1.2.3.0/24". A bare address is
// treated as a single host (/32 or /128). Any invalid entry fails the whole list.
func NewAllowList(cidrs []string) (AllowList, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		p, err := parseBlock(strings.TrimSpace(cidr))
		if err != nil {
			return AllowList{}, fmt.Errorf("%w: %q: %v", ErrInvalidCIDR, cidr, err)
		}
		prefixes = append(prefixes, p)
	}
	return AllowList{prefixes: prefixes}, nil
}

// MustAllowList is like NewAllowList but panics on invalid input
func MustAllowList(cidrs ...string) AllowList {
	list, err := NewAllowList(cidrs)
	if err != nil {
		panic(err)
	}
	return list
}

func parseBlock(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	if addr.Zone() != "" {
		return netip.Prefix{}, fmt.Errorf("zoned address not allowed")
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// Empty reports whether no restriction is configured
func (l AllowList) Empty() bool {
	return len(l.prefixes) == 0
}

// Len returns the number of blocks
func (l AllowList) Len() int {
	return len(l.prefixes)
}

// Strings returns the blocks in CIDR notation
func (l AllowList) Strings() []string {
	out := make([]string, len(l.prefixes))
	for i, p := range l.prefixes {
		out[i] = p.String()
	}
	return out
}

// Contains reports whether ip parses and falls inside one of the blocks.
// "localhost" never matches.
func (l AllowList) Contains(ip string) bool {
	if ip == "localhost" {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ValidSender decides whether a notification from ip is trusted. In test mode
// every sender is trusted unless ignoreTestMode is set; an empty list trusts
// every sender too.
func ValidSender(ip string, list AllowList, mode Mode, ignoreTestMode bool) bool {
	if mode == Test && !ignoreTestMode {
		return true
	}
	if list.Empty() {
		return true
	}
	return list.Contains(ip)
}
