//go:build !windows

package printer

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/phin1x/go-ipp"
)

// DefaultCUPSPort is the IPP port of the CUPS scheduler.
const DefaultCUPSPort = 631

// document-format CUPS passes to the printer untouched
const cupsRawFormat = "application/vnd.cups-raw"

// cupsClient is the part of ipp.CUPSClient the spooler uses.
type cupsClient interface {
	GetPrinters(attributes []string) (map[string]ipp.Attributes, error)
	PrintJob(document ipp.Document, printer string, jobAttributes map[string]interface{}) (int, error)
}

// SystemLookup lists the CUPS queues of the scheduler named by CUPS_SERVER,
// localhost by default.
func SystemLookup() Lookup {
	host, port := cupsServer(os.Getenv("CUPS_SERVER"))
	return cupsLookup{client: ipp.NewCUPSClient(host, port, os.Getenv("USER"), "", false)}
}

// cupsServer splits a CUPS_SERVER value. Socket paths fall back to the
// local scheduler over TCP.
func cupsServer(s string) (string, int) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "/") {
		return "localhost", DefaultCUPSPort
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return s, DefaultCUPSPort
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 {
		return host, DefaultCUPSPort
	}
	return host, n
}

type cupsLookup struct {
	client cupsClient
}

func (c cupsLookup) Services(ctx context.Context) ([]Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	printers, err := c.client.GetPrinters([]string{ipp.AttributePrinterName})
	if err != nil {
		return nil, fmt.Errorf("cups: get printers: %w", err)
	}
	// map order is random; keep the first match stable
	names := slices.Sorted(maps.Keys(printers))
	services := make([]Service, 0, len(names))
	for _, n := range names {
		services = append(services, cupsService{name: n, client: c.client})
	}
	return services, nil
}

type cupsService struct {
	name   string
	client cupsClient
}

func (s cupsService) Name() string { return s.name }

func (s cupsService) Submit(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := ipp.Document{
		Document: bytes.NewReader(data),
		Size:     len(data),
		Name:     "label.epl",
		MimeType: cupsRawFormat,
	}
	attrs := map[string]interface{}{ipp.AttributeJobName: "zlabel"}
	if _, err := s.client.PrintJob(doc, s.name, attrs); err != nil {
		return fmt.Errorf("cups: print on %s: %w", s.name, err)
	}
	return nil
}
