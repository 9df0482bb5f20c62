package printer

import (
	"errors"
	"fmt"

	"github.com/google/gousb"
)

// ZebraVendorID is the USB vendor of Zebra printers.
const ZebraVendorID gousb.ID = 0x0a5f

type usbConn struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
}

// NewUSBPrinter opens the first device matching vendorID and productID and
// talks to its first bulk endpoints.
func NewUSBPrinter(vendorID, productID gousb.ID) (*Printer, error) {
	ctx := gousb.NewContext()
	dev, err := findUSBPrinter(ctx, vendorID, productID)
	if err != nil {
		ctx.Close()
		return nil, err
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, err
	}

	conn := &usbConn{ctx: ctx, dev: dev, cfg: cfg, intf: intf}
	for _, ep := range intf.Setting.Endpoints {
		switch {
		case ep.Direction == gousb.EndpointDirectionOut && conn.out == nil:
			conn.out, err = intf.OutEndpoint(ep.Number)
		case ep.Direction == gousb.EndpointDirectionIn && conn.in == nil:
			// status replies are optional
			conn.in, _ = intf.InEndpoint(ep.Number)
		}
		if err != nil {
			conn.Close()
			return nil, err
		}
	}
	if conn.out == nil {
		conn.Close()
		return nil, fmt.Errorf("usb %s:%s: no OUT endpoint", vendorID, productID)
	}

	return NewPrinter(conn)
}

func findUSBPrinter(ctx *gousb.Context, vendorID, productID gousb.ID) (*gousb.Device, error) {
	dev, err := ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("usb %s:%s: %w", vendorID, productID, err)
	}
	if dev == nil {
		return nil, fmt.Errorf("usb %s:%s: %w", vendorID, productID, ErrDeviceNotFound)
	}
	return dev, nil
}

func (u *usbConn) Read(p []byte) (int, error) {
	if u.in != nil {
		return u.in.Read(p)
	}
	return 0, errors.New("usb read not supported")
}

func (u *usbConn) Write(p []byte) (int, error) {
	return u.out.Write(p)
}

func (u *usbConn) Close() error {
	if u.intf != nil {
		u.intf.Close()
	}
	if u.cfg != nil {
		u.cfg.Close()
	}
	if u.dev != nil {
		u.dev.Close()
	}
	if u.ctx != nil {
		u.ctx.Close()
	}
	return nil
}
