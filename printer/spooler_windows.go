//go:build windows

package printer

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// spoolerConn implements io.ReadWriteCloser on top of the Windows spooler API.
type spoolerConn struct {
	hPrinter windows.Handle
}

func (s *spoolerConn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var written uint32
	r1, _, err := procWritePrinter.Call(
		uintptr(s.hPrinter),
		uintptr(unsafe.Pointer(&p[0])),
		uintptr(len(p)),
		uintptr(unsafe.Pointer(&written)),
	)
	if r1 == 0 {
		return int(written), err
	}
	return int(written), nil
}

func (s *spoolerConn) Read(p []byte) (int, error) {
	return 0, errors.New("read not supported for Windows spooler connection")
}

func (s *spoolerConn) Close() error {
	call := func(proc *windows.LazyProc) func() error {
		return func() error {
			if r1, _, err := proc.Call(uintptr(s.hPrinter)); r1 == 0 {
				return err
			}
			return nil
		}
	}
	return finishJob(
		spoolStep{"EndPagePrinter", call(procEndPagePrinter)},
		spoolStep{"EndDocPrinter", call(procEndDocPrinter)},
		spoolStep{"ClosePrinter", call(procClosePrinter)},
	)
}

// NewWinPrintSpoolerPrinter opens a RAW document on the named spooler queue.
// The job is submitted when the printer connection is closed.
func NewWinPrintSpoolerPrinter(printerName string) (*Printer, error) {
	var hPrinter windows.Handle
	pname, err := windows.UTF16PtrFromString(printerName)
	if err != nil {
		return nil, err
	}
	r1, _, err := procOpenPrinter.Call(
		uintptr(unsafe.Pointer(pname)),
		uintptr(unsafe.Pointer(&hPrinter)),
		0,
	)
	if r1 == 0 {
		return nil, fmt.Errorf("failed to open printer %q: %w", printerName, err)
	}

	// DOC_INFO_1
	docName, _ := windows.UTF16PtrFromString("EPL RAW Document")
	dataType, _ := windows.UTF16PtrFromString("RAW")
	di := docInfo1{
		pDocName:    docName,
		pOutputFile: nil,
		pDatatype:   dataType,
	}

	r1, _, err = procStartDocPrinter.Call(
		uintptr(hPrinter),
		1,
		uintptr(unsafe.Pointer(&di)),
	)
	if r1 == 0 {
		procClosePrinter.Call(uintptr(hPrinter))
		return nil, fmt.Errorf("StartDocPrinter failed: %w", err)
	}

	procStartPagePrinter.Call(uintptr(hPrinter))

	conn := &spoolerConn{hPrinter: hPrinter}
	return NewPrinter(conn)
}

// SystemLookup lists the local and connected spooler queues.
func SystemLookup() Lookup {
	return spoolerLookup{}
}

type spoolerLookup struct{}

func (spoolerLookup) Services(ctx context.Context) ([]Service, error) {
	names, err := enumPrinters()
	if err != nil {
		return nil, err
	}
	services := make([]Service, 0, len(names))
	for _, n := range names {
		services = append(services, spoolerService{name: n})
	}
	return services, nil
}

type spoolerService struct {
	name string
}

func (s spoolerService) Name() string { return s.name }

func (s spoolerService) Submit(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := NewWinPrintSpoolerPrinter(s.name)
	if err != nil {
		return err
	}
	if err := writeAll(p, data); err != nil {
		_ = p.CloseConnection()
		return err
	}
	return p.CloseConnection()
}

const (
	printerEnumLocal       = 0x00000002
	printerEnumConnections = 0x00000004
)

// PRINTER_INFO_4
type printerInfo4 struct {
	pPrinterName *uint16
	pServerName  *uint16
	attributes   uint32
}

func enumPrinters() ([]string, error) {
	flags := uintptr(printerEnumLocal | printerEnumConnections)
	var needed, returned uint32

	// first call only reports the buffer size
	procEnumPrinters.Call(flags, 0, 4, 0, 0,
		uintptr(unsafe.Pointer(&needed)),
		uintptr(unsafe.Pointer(&returned)),
	)
	if needed == 0 {
		return nil, nil
	}

	buf := make([]byte, needed)
	r1, _, err := procEnumPrinters.Call(flags, 0, 4,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(needed),
		uintptr(unsafe.Pointer(&needed)),
		uintptr(unsafe.Pointer(&returned)),
	)
	if r1 == 0 {
		return nil, fmt.Errorf("EnumPrinters failed: %w", err)
	}

	infos := unsafe.Slice((*printerInfo4)(unsafe.Pointer(&buf[0])), returned)
	names := make([]string, 0, returned)
	for _, info := range infos {
		names = append(names, windows.UTF16PtrToString(info.pPrinterName))
	}
	return names, nil
}

// --- WinAPI binding ---
var (
	modwinspool          = windows.NewLazySystemDLL("winspool.drv")
	procOpenPrinter      = modwinspool.NewProc("OpenPrinterW")
	procClosePrinter     = modwinspool.NewProc("ClosePrinter")
	procStartDocPrinter  = modwinspool.NewProc("StartDocPrinterW")
	procEndDocPrinter    = modwinspool.NewProc("EndDocPrinter")
	procStartPagePrinter = modwinspool.NewProc("StartPagePrinter")
	procEndPagePrinter   = modwinspool.NewProc("EndPagePrinter")
	procWritePrinter     = modwinspool.NewProc("WritePrinter")
	procEnumPrinters     = modwinspool.NewProc("EnumPrintersW")
)

type docInfo1 struct {
	pDocName    *uint16
	pOutputFile *uint16
	pDatatype   *uint16
}
