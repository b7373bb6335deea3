package telemetry

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"robosense/protocol"
)

// Stats counts what the link has seen since it was opened.
type Stats struct {
	Frames       uint64 `json:"frames"`
	Dropped      uint64 `json:"dropped"`
	DecodeErrors uint64 `json:"decode_errors"`
	Overflows    uint64 `json:"overflows"`
}

// Link reads frames from the robot, decodes reports and delivers readings.
// It only listens; the robot streams reports on its own schedule.
type Link struct {
	port    io.ReadCloser
	cal     Calibration
	log     logrus.FieldLogger
	decoder *protocol.FrameDecoder
	now     func() time.Time

	readings chan Reading

	frames       uint64
	decodeErrors uint64
	overflows    uint64

	readMutex sync.Mutex
	closeOnce sync.Once
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewLink starts reading from port in the background.
func NewLink(port io.ReadCloser, cal Calibration, log logrus.FieldLogger) *Link {
	l := &Link{
		port:     port,
		cal:      cal,
		log:      log,
		decoder:  protocol.NewFrameDecoder(),
		now:      time.Now,
		readings: make(chan Reading, 16),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go l.readLoop()
	return l
}

// Readings delivers decoded readings. When the consumer falls behind the
// oldest reading is dropped. The channel is closed when the port reaches
// EOF or the link is closed.
func (l *Link) Readings() <-chan Reading {
	return l.readings
}

// Done is closed once the read loop has exited.
func (l *Link) Done() <-chan struct{} {
	return l.doneChan
}

func (l *Link) Stats() Stats {
	return Stats{
		Frames:       atomic.LoadUint64(&l.frames),
		Dropped:      uint64(l.droppedFrames()),
		DecodeErrors: atomic.LoadUint64(&l.decodeErrors),
		Overflows:    atomic.LoadUint64(&l.overflows),
	}
}

func (l *Link) droppedFrames() uint32 {
	l.readMutex.Lock()
	defer l.readMutex.Unlock()
	return l.decoder.Dropped()
}

// Close stops the read loop and closes the port.
func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.stopChan)
		if l.port != nil {
			err = l.port.Close()
		}
		<-l.doneChan
	})
	return errors.Wrap(err, "failed to close port")
}

func (l *Link) stopped() bool {
	select {
	case <-l.stopChan:
		return true
	default:
		return false
	}
}

func (l *Link) readLoop() {
	defer close(l.doneChan)
	defer close(l.readings)

	buffer := make([]byte, 256)
	for !l.stopped() {
		n, err := l.port.Read(buffer)
		if n > 0 {
			l.feed(buffer[:n])
		}
		if err != nil {
			if err == io.EOF || l.stopped() {
				return
			}
			l.log.WithError(err).Debug("serial read failed")
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// feed pushes received bytes through the frame decoder, draining frames
// whenever the decoder buffer fills.
func (l *Link) feed(data []byte) {
	l.readMutex.Lock()
	defer l.readMutex.Unlock()

	for len(data) > 0 {
		n := l.decoder.Feed(data)
		data = data[n:]
		before := l.decoder.Dropped()
		for {
			f, ok := l.decoder.Next()
			if !ok {
				break
			}
			l.dispatch(f)
		}
		if dropped := l.decoder.Dropped() - before; dropped > 0 {
			l.log.WithField("dropped", dropped).Debug("discarded corrupt frames")
		}
		if n == 0 {
			l.log.WithField("bytes", len(data)).Warn("frame buffer full, discarding input")
			return
		}
	}
}

func (l *Link) dispatch(f protocol.Frame) {
	atomic.AddUint64(&l.frames, 1)
	rep, err := protocol.DecodeReport(f.Payload)
	if err != nil {
		atomic.AddUint64(&l.decodeErrors, 1)
		l.log.WithError(err).WithField("seq", f.Sequence).Debug("undecodable frame")
		return
	}
	r := Convert(rep, f.Sequence, l.now(), l.cal)

	select {
	case l.readings <- r:
	default:
		// Consumer is behind, drop the oldest
		atomic.AddUint64(&l.overflows, 1)
		select {
		case <-l.readings:
		default:
		}
		l.readings <- r
	}
}

// DecodeStream decodes every report in r, a raw capture of the serial
// stream, and calls fn for each in order. It stops at the first error fn
// returns.
func DecodeStream(r io.Reader, cal Calibration, fn func(Reading) error) (Stats, error) {
	var st Stats
	dec := protocol.NewFrameDecoder()
	buf := make([]byte, 256)
	for {
		n, rerr := r.Read(buf)
		data := buf[:n]
		for len(data) > 0 {
			k := dec.Feed(data)
			data = data[k:]
			for {
				f, ok := dec.Next()
				if !ok {
					break
				}
				st.Frames++
				rep, err := protocol.DecodeReport(f.Payload)
				if err != nil {
					st.DecodeErrors++
					continue
				}
				if err := fn(Convert(rep, f.Sequence, time.Time{}, cal)); err != nil {
					st.Dropped = uint64(dec.Dropped())
					return st, err
				}
			}
			if k == 0 {
				break
			}
		}
		if rerr == io.EOF {
			st.Dropped = uint64(dec.Dropped())
			return st, nil
		}
		if rerr != nil {
			return st, errors.Wrap(rerr, "failed to read capture")
		}
	}
}
