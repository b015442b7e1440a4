package runner

import (
	"context"
	"net"
	"net/url"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/shared/constants"
)

// Connection is the TCP handshake outcome for one endpoint.
type Connection struct {
	Target      string        `json:"target"`
	Address     string        `json:"address"`
	ConnectTime time.Duration `json:"connect_time"`
	Error       string        `json:"error,omitempty"`
}

func (c Connection) Open() bool {
	return c.Error == ""
}

// TCPRunner measures the bare TCP handshake to an endpoint, which separates
// network distance from server processing time.
type TCPRunner struct {
	timeout time.Duration
}

func NewTCPRunner(timeout time.Duration) *TCPRunner {
	if timeout <= 0 {
		timeout = constants.TCPTimeout
	}
	return &TCPRunner{timeout: timeout}
}

func (r *TCPRunner) Connect(ctx context.Context, endpoint domain.EndpointDescriptor) Connection {
	res := Connection{Target: endpoint.Name}

	address, err := dialAddress(endpoint.URL)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Address = address

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	res.ConnectTime = time.Since(start)

	if err != nil {
		res.Error = err.Error()
		return res
	}
	conn.Close()

	return res
}

// dialAddress returns host:port, filling in the scheme's default port.
func dialAddress(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
