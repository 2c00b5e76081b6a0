package iputil

import (
	"errors"
	"net/netip"

	"github.com/heyvito/gateway"
)

// NoAddressErr indicates that no usable address was found.
var NoAddressErr = errors.New("no address could be detected")

// GetDefaultIP returns the address of the interface holding the default
// route. This is the address that must be configured as the UDP telemetry
// target in the game settings.
func GetDefaultIP(preferIPv6 bool) (netip.Addr, error) {
	ips, err := gateway.FindDefaultIPs()
	if err != nil {
		return netip.Addr{}, err
	}
	return pickAddress(ips, preferIPv6)
}

func pickAddress(ips []netip.Addr, preferIPv6 bool) (netip.Addr, error) {
	for _, v := range ips {
		if v.Is6() == preferIPv6 {
			return v, nil
		}
	}

	for _, v := range ips {
		return v, nil
	}

	return netip.Addr{}, NoAddressErr
}
