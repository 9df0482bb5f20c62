package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedURI = errors.New("unsupported printer uri")
	ErrDeviceNotFound = errors.New("device not found")
)

// Endpoint is a parsed printer URI:
//
//	usb://0a5f:000a
//	serial:///dev/ttyUSB0?baud=9600, serial://COM3
//	file:///dev/usb/lp0
//	tcp://192.168.1.20:9100
//	lpd://192.168.1.20/zebra
type Endpoint struct {
	Scheme  string
	Address string
	Queue   string
	Baud    int
	Vendor  gousb.ID
	Product gousb.ID
}

// ParseURI validates raw and fills in default ports.
func ParseURI(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrUnsupportedURI, err)
	}
	ep := Endpoint{Scheme: strings.ToLower(u.Scheme)}

	switch ep.Scheme {
	case "usb":
		vid, pid, ok := strings.Cut(u.Host, ":")
		if !ok {
			return Endpoint{}, fmt.Errorf("%w: %s: want usb://vid:pid", ErrUnsupportedURI, raw)
		}
		if ep.Vendor, err = parseID(vid); err != nil {
			return Endpoint{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedURI, raw, err)
		}
		if ep.Product, err = parseID(pid); err != nil {
			return Endpoint{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedURI, raw, err)
		}
		ep.Address = u.Host

	case "serial":
		ep.Address = u.Host + u.Path
		ep.Baud = DefaultBaudRate
		if b := u.Query().Get("baud"); b != "" {
			if ep.Baud, err = strconv.Atoi(b); err != nil || ep.Baud <= 0 {
				return Endpoint{}, fmt.Errorf("%w: %s: bad baud %q", ErrUnsupportedURI, raw, b)
			}
		}

	case "file":
		ep.Address = u.Path

	case "tcp":
		ep.Address = withPort(u.Host, RawPort)

	case "lpd":
		ep.Address = withPort(u.Host, LPDPort)
		ep.Queue = strings.Trim(u.Path, "/")
		if ep.Queue == "" {
			ep.Queue = "lp"
		}

	default:
		return Endpoint{}, fmt.Errorf("%w: %q", ErrUnsupportedURI, raw)
	}

	if ep.Address == "" {
		return Endpoint{}, fmt.Errorf("%w: %s: missing address", ErrUnsupportedURI, raw)
	}
	return ep, nil
}

// Open connects to the printer behind raw.
func Open(ctx context.Context, raw string, logger *zap.Logger) (*Printer, error) {
	ep, err := ParseURI(raw)
	if err != nil {
		return nil, err
	}

	var p *Printer
	switch ep.Scheme {
	case "usb":
		p, err = NewUSBPrinter(ep.Vendor, ep.Product)
	case "serial":
		p, err = NewSerialPrinter(ep.Address, ep.Baud)
	case "file":
		p, err = NewDevicePrinter(ep.Address)
	case "tcp", "lpd":
		return NewNetworkPrinter(ctx, ep.Address, ep.Queue, logger)
	}
	if err != nil {
		return nil, err
	}
	p.SetLogger(logger)
	return p, nil
}

func parseID(s string) (gousb.ID, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0, err
	}
	return gousb.ID(v), nil
}

func withPort(host, port string) string {
	if host == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, port)
}
