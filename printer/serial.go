package printer

import (
	"fmt"
	"slices"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate is the factory setting of the LP 2844 serial port.
const DefaultBaudRate = 9600

// NewSerialPrinter opens a printer on a serial port (COM3, /dev/ttyUSB0).
func NewSerialPrinter(portName string, baudRate int) (*Printer, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	if !slices.Contains(ports, portName) {
		return nil, fmt.Errorf("serial port %s: %w", portName, ErrDeviceNotFound)
	}

	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(500 * time.Millisecond); err != nil {
		port.Close()
		return nil, err
	}

	return NewPrinter(port)
}
