package referral

import (
	"fmt"
	"strings"
)

// AddressPool hands out team addresses in round-robin order. It is not
// goroutine safe on its own; the Store serializes access.
type AddressPool struct {
	addresses []string
	k         uint64
}

func NewAddressPool(addresses []string) (*AddressPool, error) {
	if len(addresses) == 0 {
		return nil, ErrPoolMisconfigured
	}
	pool := make([]string, len(addresses))
	for i, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil, fmt.Errorf("%w: address #%d is blank", ErrPoolMisconfigured, i+1)
		}
		pool[i] = a
	}
	return &AddressPool{addresses: pool}, nil
}

// Next returns pool[k mod N] and advances k.
func (p *AddressPool) Next() string {
	addr := p.Peek()
	p.Advance()
	return addr
}

// Peek returns the address Next would return without advancing k.
func (p *AddressPool) Peek() string {
	return p.addresses[p.k%uint64(len(p.addresses))]
}

// Advance moves k past the slot returned by Peek.
func (p *AddressPool) Advance() {
	p.k++
}

// Issued is the number of addresses handed out so far.
func (p *AddressPool) Issued() uint64 {
	return p.k
}

func (p *AddressPool) Size() int {
	return len(p.addresses)
}
