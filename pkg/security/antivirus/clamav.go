package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// ClamAVScanner streams payloads to a clamd daemon
type ClamAVScanner struct {
	address string // "host:port" or a unix socket path
	timeout time.Duration
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{
		address: address,
		timeout: timeout,
	}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))
	return conn, nil
}

// Available sends PING and expects PONG
func (c *ClamAVScanner) Available(ctx context.Context) bool {
	conn, err := c.dial(ctx, 5*time.Second)
	if err != nil {
		return false
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return false
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(buf[:n]), "PONG")
}

// Scan sends the payload with the INSTREAM command as a single chunk
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(err error) ScanResult {
		result.Infected = true
		result.Error = err
		return result
	}

	conn, err := c.dial(ctx, c.timeout)
	if err != nil {
		return fail(fmt.Errorf("failed to connect to clamd: %w", err))
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail(fmt.Errorf("failed to send command: %w", err))
	}

	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(data)))
	if _, err := conn.Write(size); err != nil {
		return fail(fmt.Errorf("failed to send size: %w", err))
	}
	if _, err := conn.Write(data); err != nil {
		return fail(fmt.Errorf("failed to send file data: %w", err))
	}
	// zero-length chunk ends the stream
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail(fmt.Errorf("failed to send end marker: %w", err))
	}

	response, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil && len(response) == 0 {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	infected, threat, scanErr := parseResponse(string(response))
	if scanErr != nil {
		return fail(scanErr)
	}
	result.Infected = infected
	result.ThreatName = threat
	return result
}

// parseResponse understands "stream: OK", "stream: <name> FOUND"
// and "<message> ERROR" replies.
func parseResponse(raw string) (bool, string, error) {
	resp := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	switch {
	case strings.HasSuffix(resp, "FOUND"):
		threat := resp
		if _, after, ok := strings.Cut(resp, ":"); ok {
			threat = after
		}
		return true, strings.TrimSpace(strings.TrimSuffix(threat, "FOUND")), nil
	case strings.HasSuffix(resp, "ERROR"):
		return true, "", fmt.Errorf("scan error: %s", resp)
	case strings.HasSuffix(resp, "OK"):
		return false, "", nil
	default:
		return true, "", fmt.Errorf("unexpected clamd response: %q", resp)
	}
}
