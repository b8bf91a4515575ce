package utils

import "net"

// GetLocalIP reports the LAN address peers should dial to reach this host.
// The UDP "connection" never sends a packet; it only asks the OS which
// interface routes toward the internet. Falls back to loopback when the
// host is offline.
func GetLocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer func() { _ = conn.Close() }()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}

	return localAddr.IP.String()
}
