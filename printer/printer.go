package printer

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	imgInternal "github.com/AlexStarov/epl-label-GoLang-lib/image"
	"github.com/AlexStarov/epl-label-GoLang-lib/label"
	"github.com/AlexStarov/epl-label-GoLang-lib/util"
)

// Printer wraps sending EPL commands to a Transport. The formatting state is
// applied to every Text command until changed.
type Printer struct {
	t   Transport
	log *zap.Logger

	// text state of the A command
	font, rotation       int
	horizontal, vertical int
	reverse              bool

	// cursor of the next Text command, in dots
	x, y int

	codePage *util.CodePage

	// StatusDelay is how long ReadStatus waits for the printer to answer.
	StatusDelay time.Duration

	sync.Mutex
}

// NewPrinter creates a new printer using the specified writer. A net.Conn
// to port 515 is spoken to as an LPD queue named "lp", anything else is RAW.
func NewPrinter(w io.ReadWriter) (*Printer, error) {
	var transport Transport

	if conn, ok := w.(net.Conn); ok {
		if strings.HasSuffix(conn.RemoteAddr().String(), ":515") {
			transport = NewLPDTransport(conn, "lp", nil)
		} else {
			transport = &RawTransport{conn: conn}
		}
	} else if rc, ok := w.(io.ReadWriteCloser); ok {
		transport = &RawTransport{conn: rc}
	} else {
		// any io.ReadWriter, e.g. bytes.Buffer
		transport = &RawTransport{conn: nopCloser{w}}
	}

	return NewTransportPrinter(transport, nil), nil
}

// NewTransportPrinter creates a printer on an already chosen transport.
func NewTransportPrinter(t Transport, logger *zap.Logger) *Printer {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Printer{
		t:           t,
		log:         logger,
		StatusDelay: time.Second,
	}
	p.Reset()
	return p
}

// SetLogger replaces the logger used for rejected settings and writes.
func (p *Printer) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p.log = logger
}

// Reset restores the default text options and moves the cursor home.
func (p *Printer) Reset() {
	o := label.DefaultOptions()
	p.font = o.Font
	p.rotation = o.Rotation
	p.horizontal = o.Horizontal
	p.vertical = o.Vertical
	p.reverse = o.Reverse

	p.x = label.StartX
	p.y = label.StartY
}

// Options returns the current text options with a single copy.
func (p *Printer) Options() label.Options {
	o := label.Options{
		Font:       p.font,
		Rotation:   p.rotation,
		Horizontal: p.horizontal,
		Vertical:   p.vertical,
		Reverse:    p.reverse,
		Copies:     1,
	}
	if p.codePage != nil {
		o.CodePage = p.codePage.Name
	}
	return o
}

func (p *Printer) CloseConnection() error {
	return p.t.Close()
}

// Write writes buf to printer.
func (p *Printer) Write(buf []byte) (int, error) {
	return p.t.Write(buf)
}

func (p *Printer) send(cmd string) error {
	_, err := p.t.Write([]byte(cmd))
	return err
}

// Clear empties the image buffer and moves the cursor home.
func (p *Printer) Clear() error {
	p.x, p.y = label.StartX, label.StartY
	return p.send(label.ClearCommand)
}

// SetCodePage sends the I command and encodes further text with the code page.
func (p *Printer) SetCodePage(name string) error {
	cp, err := util.LookupCodePage(name)
	if err != nil {
		return fmt.Errorf("%w: %v", label.ErrInvalidOption, err)
	}
	p.codePage = &cp
	return p.send(label.CodePageCommand(cp))
}

// SetFont selects one of the five resident fonts.
func (p *Printer) SetFont(font int) {
	o := p.Options()
	o.Font = font
	if p.accept(o) {
		p.font = font
	}
}

// SetRotation sets the rotation, 0 to 3 in steps of 90 degrees.
func (p *Printer) SetRotation(rotation int) {
	o := p.Options()
	o.Rotation = rotation
	if p.accept(o) {
		p.rotation = rotation
	}
}

// SetExpansion sets the horizontal and vertical multipliers.
func (p *Printer) SetExpansion(horizontal, vertical int) {
	o := p.Options()
	o.Horizontal, o.Vertical = horizontal, vertical
	if p.accept(o) {
		p.horizontal, p.vertical = horizontal, vertical
	}
}

// SetReverse toggles reverse (white on black) image.
func (p *Printer) SetReverse(v bool) {
	p.reverse = v
}

// MoveTo places the cursor of the next Text command.
func (p *Printer) MoveTo(x, y int) {
	p.x, p.y = x, y
}

// Position returns the cursor of the next Text command.
func (p *Printer) Position() (x, y int) {
	return p.x, p.y
}

func (p *Printer) accept(o label.Options) bool {
	if err := o.Validate(); err != nil {
		p.log.Warn("ignoring invalid setting", zap.Error(err))
		return false
	}
	return true
}

// Text writes one line at the cursor and moves the cursor one line down.
func (p *Printer) Text(s string) error {
	cmd, err := label.TextCommand(p.x, p.y, p.Options(), s, p.codePage)
	if err != nil {
		return err
	}
	if _, err := p.t.Write(cmd); err != nil {
		return err
	}
	p.y += label.LineStep
	return nil
}

// Graphic writes a GW command. It makes Printer an image.Target.
func (p *Printer) Graphic(x, y, bytesWidth, height int, data []byte) error {
	_, err := p.t.Write(imgInternal.Command(x, y, bytesWidth, height, data))
	return err
}

// PrintImage loads the image at imgPath and places it at x, y.
func (p *Printer) PrintImage(imgPath string, x, y int) error {
	img, err := imgInternal.Load(imgPath)
	if err != nil {
		return err
	}
	p.log.Debug("loaded image", zap.String("path", imgPath), zap.Stringer("bounds", img.Bounds()))
	return imgInternal.NewConverter().Print(img, x, y, p)
}

// Print prints the buffered label copies times.
func (p *Printer) Print(copies int) error {
	if copies < 1 || copies > label.MaxCopies {
		return fmt.Errorf("%w: copies %d", label.ErrInvalidOption, copies)
	}
	return p.send(label.PrintCommand(copies))
}

// WriteLabel sends a complete label program in a single write.
func (p *Printer) WriteLabel(l *label.Label) error {
	data, err := l.Build()
	if err != nil {
		return err
	}
	p.Lock()
	defer p.Unlock()
	n, err := p.t.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	p.log.Info("label sent", zap.Int("bytes", n), zap.Int("copies", l.Options.Copies))
	return nil
}

// Status asks for the error report ("^ee") and returns the printer's reply,
// "00" meaning no error.
func (p *Printer) Status() (string, error) {
	if err := p.send("^ee\n"); err != nil {
		return "", err
	}
	time.Sleep(p.StatusDelay)
	buf := make([]byte, 16)
	n, err := p.t.Read(buf)
	if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
		return "", err
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

// ReadStatus reports whether the printer answered with no error.
func (p *Printer) ReadStatus() bool {
	status, err := p.Status()
	if err != nil {
		p.log.Warn("status read failed", zap.Error(err))
		return false
	}
	return status == "00"
}
