package feed

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/yanun0323/logs"
)

const maxDatagram = 64 * 1024

// UDPSource receives raw tick datagrams, one tick per packet. Failure to
// bind the socket is fatal at startup; per-packet errors never stop the loop.
type UDPSource struct {
	conn *net.UDPConn
}

// NewUDPSource binds the listen socket.
func NewUDPSource(addr string) (*UDPSource, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve listen address %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %s: %w", addr, err)
	}
	return &UDPSource{conn: conn}, nil
}

// Run reads datagrams until the context is cancelled or the socket closes.
// Each packet payload is handed to the callback as-is.
func (s *UDPSource) Run(ctx context.Context, handle func(data []byte)) error {
	go func() {
		<-ctx.Done()
		_ = s.conn.Close()
	}()

	logs.Infof("udp tick source listening on %s", s.conn.LocalAddr())

	buf := make([]byte, maxDatagram)
	for {
		n, _, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read udp datagram: %w", err)
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		handle(data)
	}
}

// Close releases the socket.
func (s *UDPSource) Close() error {
	return s.conn.Close()
}
