package ingest

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"
)

// Reader owns the input descriptor and the hex-line scratch buffer
// exclusively (spec §5). It publishes complete lines on Lines and closes
// it when the input is exhausted.
type Reader struct {
	Lines chan string
	log   *logrus.Entry
}

// NewReader starts a goroutine that reads r in 64-byte chunks, assembling
// newline-delimited records, and publishing each through the returned
// Reader's Lines channel (the rendezvous of spec §4.6/§5). The channel is
// closed when r returns io.EOF or a read error.
func NewReader(r io.Reader, log *logrus.Entry) *Reader {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	rd := &Reader{Lines: make(chan string, 1), log: log}

	go rd.run(r)

	return rd
}

func (rd *Reader) run(r io.Reader) {
	defer close(rd.Lines)

	br := bufio.NewReaderSize(r, 64)
	var asm lineAssembler

	scratch := make([]byte, 64)
	for {
		n, err := br.Read(scratch)
		for i := 0; i < n; i++ {
			asm.feed(scratch[i], func(line string) {
				rd.Lines <- line
			})
		}
		if err != nil {
			if err != io.EOF {
				rd.log.WithError(err).Warn("input read error, stopping ingest")
			}
			return
		}
	}
}
