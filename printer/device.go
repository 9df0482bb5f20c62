package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	RawPort = "9100"
	LPDPort = "515"
)

// NewDevicePrinter opens a character device such as /dev/usb/lp0. Devices
// that cannot be read are opened write only.
func NewDevicePrinter(path string) (*Printer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		f, err = os.OpenFile(path, os.O_WRONLY, 0)
	}
	if err != nil {
		return nil, err
	}
	return NewPrinter(f)
}

// NewNetworkPrinter dials addr. A non-empty queue, or port 515, selects LPD;
// otherwise bytes go RAW, usually to port 9100.
func NewNetworkPrinter(ctx context.Context, addr, queue string, logger *zap.Logger) (*Printer, error) {
	d := net.Dialer{Timeout: 10 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	_, port, _ := net.SplitHostPort(addr)
	var t Transport
	if queue != "" || port == LPDPort {
		t = NewLPDTransport(conn, queue, logger)
	} else {
		t = NewRawTransport(conn)
	}
	return NewTransportPrinter(t, logger), nil
}
