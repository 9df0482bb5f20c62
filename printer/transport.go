package printer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport carries command bytes to the printer.
type Transport interface {
	Write([]byte) (int, error)
	Read([]byte) (int, error)
	Close() error
}

// -------------------- RAW --------------------

type RawTransport struct {
	conn io.ReadWriteCloser
}

// NewRawTransport passes bytes straight through to conn.
func NewRawTransport(conn io.ReadWriteCloser) *RawTransport {
	return &RawTransport{conn: conn}
}

func (r *RawTransport) Write(b []byte) (int, error) { return r.conn.Write(b) }
func (r *RawTransport) Read(b []byte) (int, error)  { return r.conn.Read(b) }
func (r *RawTransport) Close() error                { return r.conn.Close() }

// -------------------- LPD --------------------

// LPDTransport buffers everything written and submits it as one RFC 1179
// job when closed.
type LPDTransport struct {
	conn   net.Conn
	queue  string
	log    *zap.Logger
	jobBuf bytes.Buffer
	closed bool
	mu     sync.Mutex

	// AckTimeout bounds the wait for each acknowledgement.
	AckTimeout time.Duration
}

func NewLPDTransport(conn net.Conn, queue string, logger *zap.Logger) *LPDTransport {
	if queue == "" {
		queue = "lp"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LPDTransport{
		conn:       conn,
		queue:      queue,
		log:        logger,
		AckTimeout: 5 * time.Second,
	}
}

func (l *LPDTransport) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, io.ErrClosedPipe
	}
	return l.jobBuf.Write(data)
}

func (l *LPDTransport) Read(b []byte) (int, error) {
	return l.conn.Read(b)
}

func (l *LPDTransport) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	defer func() { l.closed = true }()

	if l.jobBuf.Len() == 0 {
		l.log.Debug("lpd: empty job, closing connection")
		return l.conn.Close()
	}

	if err := l.flushJob(); err != nil {
		_ = l.conn.Close()
		return err
	}
	return l.conn.Close()
}

func (l *LPDTransport) flushJob() error {
	host, _ := os.Hostname()
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "zlabel"
	}

	jobID := int(time.Now().UnixNano() % 1000)
	hostShort := host
	if i := strings.IndexByte(hostShort, '.'); i > 0 {
		hostShort = hostShort[:i]
	}
	jobName := "epl-" + uuid.NewString()
	cfName := fmt.Sprintf("cfA%03d%s", jobID, hostShort)
	dfName := fmt.Sprintf("dfA%03d%s", jobID, hostShort)

	// H host, P user, J job name, l print data file raw, N source name
	control := fmt.Sprintf(
		"H%s\nP%s\nJ%s\nl%s\nN%s\n",
		host, user, jobName, dfName, jobName,
	)

	log := l.log.With(zap.String("queue", l.queue), zap.String("job", jobName))

	if err := l.requestPrintJob(); err != nil {
		return fmt.Errorf("lpd: receive job: %w", err)
	}
	if err := l.sendFile(0x02, cfName, []byte(control), "control file"); err != nil {
		return fmt.Errorf("lpd: control file: %w", err)
	}
	data := l.jobBuf.Bytes()
	if err := l.sendFile(0x03, dfName, data, "data file"); err != nil {
		return fmt.Errorf("lpd: data file: %w", err)
	}

	log.Debug("lpd: job accepted", zap.Int("bytes", len(data)))
	l.jobBuf.Reset()
	return nil
}

// -------------------- LPD helpers --------------------

func (l *LPDTransport) requestPrintJob() error {
	// \x02 <queue> \n
	if err := writeAll(l.conn, append([]byte{0x02}, l.queue+"\n"...)); err != nil {
		return err
	}
	return l.readAck("receive job")
}

func (l *LPDTransport) sendFile(code byte, name string, body []byte, stage string) error {
	// <code> <size> SP <name> \n, then body and a zero byte
	header := []byte{code}
	header = append(header, strconv.Itoa(len(body))+" "+name+"\n"...)
	if err := writeAll(l.conn, header); err != nil {
		return err
	}
	if err := l.readAck(stage + " header"); err != nil {
		return err
	}
	if err := writeAll(l.conn, body); err != nil {
		return err
	}
	if err := writeAll(l.conn, []byte{0x00}); err != nil {
		return err
	}
	return l.readAck(stage)
}

func (l *LPDTransport) readAck(stage string) error {
	_ = l.conn.SetReadDeadline(time.Now().Add(l.AckTimeout))
	defer l.conn.SetReadDeadline(time.Time{})

	ack := make([]byte, 1)
	n, err := l.conn.Read(ack)
	if err != nil {
		return fmt.Errorf("reading ack on %s: %w", stage, err)
	}
	if n != 1 || ack[0] != 0x00 {
		return fmt.Errorf("request not acknowledged on %s (0x%02x)", stage, ack[0])
	}
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	sent := 0
	for sent < len(b) {
		n, err := w.Write(b[sent:])
		if err != nil {
			return err
		}
		sent += n
	}
	return nil
}

// -------------------- helpers --------------------

type nopCloser struct {
	io.ReadWriter
}

func (n nopCloser) Close() error { return nil }
