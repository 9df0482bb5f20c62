package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultServiceName is the driver name Windows gives the LP 2844.
const DefaultServiceName = "ZDesigner LP 2844"

var ErrPrinterNotFound = errors.New("printer not found")

// Service is a named destination that accepts one print job at a time.
type Service interface {
	Name() string
	// Submit blocks until the job has been handed to the destination.
	Submit(ctx context.Context, data []byte) error
}

// Lookup enumerates the print services available to this host.
type Lookup interface {
	Services(ctx context.Context) ([]Service, error)
}

// MultiLookup concatenates the services of several lookups in order. A
// failing lookup is logged and skipped; Services only fails when every
// lookup failed.
type MultiLookup struct {
	Lookups []Lookup
	Logger  *zap.Logger
}

// NewMultiLookup combines lookups, earlier ones first.
func NewMultiLookup(logger *zap.Logger, lookups ...Lookup) MultiLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return MultiLookup{Lookups: lookups, Logger: logger}
}

func (m MultiLookup) Services(ctx context.Context) ([]Service, error) {
	logger := m.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var all []Service
	var errs []error
	for i, l := range m.Lookups {
		s, err := l.Services(ctx)
		if err != nil {
			logger.Warn("printer lookup failed", zap.Int("lookup", i), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		all = append(all, s...)
	}
	if len(errs) > 0 && len(errs) == len(m.Lookups) {
		return nil, errors.Join(errs...)
	}
	return all, nil
}

// Matches reports whether s is called name, ignoring case.
func Matches(s Service, name string) bool {
	return strings.EqualFold(s.Name(), name)
}

// Find returns the first service whose name equals name, ignoring case.
func Find(services []Service, name string) (Service, error) {
	for _, s := range services {
		if Matches(s, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPrinterNotFound, name)
}

// Dispatcher submits label programs to services found through a Lookup.
type Dispatcher struct {
	Lookup Lookup
	Logger *zap.Logger
}

// NewDispatcher returns a dispatcher over lookup.
func NewDispatcher(lookup Lookup, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Lookup: lookup, Logger: logger}
}

// Print enumerates the services, picks the one called name and submits data
// as a single job.
func (d *Dispatcher) Print(ctx context.Context, name string, data []byte) error {
	services, err := d.Lookup.Services(ctx)
	if err != nil {
		return fmt.Errorf("list printers: %w", err)
	}
	s, err := Find(services, name)
	if err != nil {
		d.Logger.Warn("printer not found", zap.String("printer", name), zap.Int("services", len(services)))
		return err
	}
	if err := s.Submit(ctx, data); err != nil {
		d.Logger.Error("print job failed", zap.String("printer", s.Name()), zap.Error(err))
		return fmt.Errorf("print on %s: %w", s.Name(), err)
	}
	d.Logger.Info("print job submitted", zap.String("printer", s.Name()), zap.Int("bytes", len(data)))
	return nil
}

// Device is a printer reached directly through a URI, see ParseURI.
type Device struct {
	Name string
	URI  string
}

// DeviceLookup exposes configured devices as services.
type DeviceLookup struct {
	Devices []Device
	Logger  *zap.Logger
}

func (l DeviceLookup) Services(ctx context.Context) ([]Service, error) {
	services := make([]Service, 0, len(l.Devices))
	for _, d := range l.Devices {
		services = append(services, deviceService{dev: d, log: l.Logger})
	}
	return services, nil
}

type deviceService struct {
	dev Device
	log *zap.Logger
}

func (s deviceService) Name() string { return s.dev.Name }

func (s deviceService) Submit(ctx context.Context, data []byte) error {
	p, err := Open(ctx, s.dev.URI, s.log)
	if err != nil {
		return err
	}
	if err := writeAll(p, data); err != nil {
		_ = p.CloseConnection()
		return err
	}
	// LPD submits on close
	return p.CloseConnection()
}
