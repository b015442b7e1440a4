package runner

import (
	"context"
	"net"
	"testing"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/shared/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPRunner_Connect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	ep := domain.EndpointDescriptor{Name: "Local", URL: "http://" + ln.Addr().String() + "/ticker"}
	res := NewTCPRunner(time.Second).Connect(context.Background(), ep)

	assert.True(t, res.Open(), res.Error)
	assert.Equal(t, ln.Addr().String(), res.Address)
	assert.True(t, res.ConnectTime > 0)
}

func TestTCPRunner_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	res := NewTCPRunner(time.Second).Connect(context.Background(), domain.EndpointDescriptor{Name: "Gone", URL: "http://" + addr})
	assert.False(t, res.Open())
	assert.NotEmpty(t, res.Error)
}

func TestNewTCPRunner_DefaultTimeout(t *testing.T) {
	assert.Equal(t, constants.TCPTimeout, NewTCPRunner(0).timeout)
	assert.Equal(t, constants.TCPTimeout, NewTCPRunner(-time.Second).timeout)
	assert.Equal(t, time.Second, NewTCPRunner(time.Second).timeout)
}

func TestDialAddress(t *testing.T) {
	tests := map[string]string{
		"https://api.binance.com/api/v3/ticker": "api.binance.com:443",
		"http://api.kraken.com/0/public":        "api.kraken.com:80",
		"http://127.0.0.1:8080/x":               "127.0.0.1:8080",
		"https://[::1]/x":                       "[::1]:443",
	}
	for in, want := range tests {
		got, err := dialAddress(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
