// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

// Package ipkey encodes IPv4 addresses and prefixes as patricia keys.
//
// A key is a sequence of '0' and '1' symbols, most significant bit first,
// one octet after the other. A full address yields 32 symbols, a prefix
// yields as many symbols as its length.
package ipkey

import (
	"net/netip"

	"github.com/pkg/errors"

	"github.com/k33nice/patricia"
)

// Bits is the length of the key of a full IPv4 address.
const Bits = 32

var (
	ErrInvalidAddr   = errors.New("invalid address")
	ErrInvalidPrefix = errors.New("invalid prefix")
	ErrNotIPv4       = errors.New("not an IPv4 address")
	ErrInvalidKey    = errors.New("invalid key")
)

// FromAddr encodes a dotted-decimal IPv4 address.
func FromAddr(addr string) (patricia.Key, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAddr, "%q", addr)
	}
	if !ip.Is4() {
		return nil, errors.Wrapf(ErrNotIPv4, "%q", addr)
	}
	return encode(ip.As4(), Bits), nil
}

// FromPrefix encodes the network bits of a CIDR prefix like 192.0.0.0/8.
// Host bits set in the address are ignored. A /0 prefix yields the
// empty key.
func FromPrefix(cidr string) (patricia.Key, error) {
	pfx, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPrefix, "%q", cidr)
	}
	if !pfx.Addr().Is4() {
		return nil, errors.Wrapf(ErrNotIPv4, "%q", cidr)
	}
	return encode(pfx.Masked().Addr().As4(), pfx.Bits()), nil
}

// ToPrefix decodes a key of at most 32 binary symbols back into a prefix.
func ToPrefix(key patricia.Key) (netip.Prefix, error) {
	if len(key) > Bits {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidKey, "%d symbols", len(key))
	}

	var octets [4]byte
	for i, symbol := range key {
		switch symbol {
		case '0':
		case '1':
			octets[i/8] |= 1 << (7 - i%8)
		default:
			return netip.Prefix{}, errors.Wrapf(ErrInvalidKey, "symbol %q at %d", symbol, i)
		}
	}
	return netip.PrefixFrom(netip.AddrFrom4(octets), len(key)), nil
}

func encode(octets [4]byte, bits int) patricia.Key {
	key := make(patricia.Key, bits)
	for i := range key {
		key[i] = '0' + (octets[i/8]>>(7-i%8))&1
	}
	return key
}
