package constants

import "time"

const (
	DefaultIterations = 3
	DefaultTimeout    = 3 * time.Second
	DefaultCooldown   = 1 * time.Second

	DNSTimeout       = 5 * time.Second
	TCPTimeout       = 10 * time.Second
	DefaultDNSServer = "8.8.8.8:53"

	MaxBodyBytes     = 1 << 20
	DefaultUserAgent = "TickerBench/1.0"
	MaxRedirects     = 10
)
