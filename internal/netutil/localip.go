// Package netutil resolves the local address other devices on the LAN
// should use to reach this machine.
package netutil

import (
	"fmt"
	"net"

	"github.com/jackpal/gateway"

	"qrdrop/internal/logger"
)

// LocalIP returns the machine's primary LAN IPv4 address: the address of
// the interface whose subnet contains the default gateway. Phones scanning
// the QR code reach us through that interface.
func LocalIP() (string, error) {
	gwIP, err := gateway.DiscoverGateway()
	if err != nil {
		return "", fmt.Errorf("discovering default gateway: %w", err)
	}

	ip, err := localIPForGateway(gwIP)
	if err != nil {
		return "", err
	}
	return ip.String(), nil
}

func localIPForGateway(gwIP net.IP) (net.IP, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing network interfaces: %w", err)
	}

	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			logger.Warn("skipping interface", "interface", iface.Name, "error", err)
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ipv4 := ipnet.IP.To4()
			if ipv4 == nil || !ipv4.IsGlobalUnicast() {
				continue
			}
			if ipnet.Contains(gwIP) {
				return ipv4, nil
			}
		}
	}

	return nil, fmt.Errorf("no IPv4 address shares a subnet with gateway %s", gwIP)
}
