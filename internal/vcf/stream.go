package vcf

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Policy controls how a Stream reacts to undecodable data lines.
// Header errors always abort regardless of policy.
type Policy uint8

const (
	// FailFast returns the first data-line error to the caller.
	FailFast Policy = iota
	// CollectErrors skips bad lines and accumulates their errors for
	// inspection at the end of the stream.
	CollectErrors
)

// RecordReader is the minimal pulling interface over decoded records.
type RecordReader interface {
	// Next returns the next record, or (nil, nil) at end of input.
	Next() (*Record, error)
	Schema() *Schema
	LineNumber() int
}

// Stream reads a VCF body line by line: it builds the Schema from the
// header block eagerly, then decodes data lines lazily on each Next.
// A Stream is single-pass and not restartable.
type Stream struct {
	reader     *bufio.Reader
	schema     *Schema
	dec        *Decoder
	policy     Policy
	logger     *zap.Logger
	lineNumber int
	errs       []error
	eof        bool
}

// NewStream consumes the header block from r and returns a stream
// positioned at the first data line. A malformed header aborts
// construction; no records can be decoded without a schema.
func NewStream(r io.Reader) (*Stream, error) {
	s := &Stream{
		reader: bufio.NewReader(r),
		logger: zap.NewNop(),
	}

	var header []string
	for {
		line, err := s.readLine()
		if err == io.EOF {
			return nil, &MalformedHeaderError{Line: s.lineNumber, Message: "no #CHROM column header found"}
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		header = append(header, line)
		if strings.HasPrefix(line, "##") {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			return nil, &MalformedHeaderError{Line: s.lineNumber, Message: "expected ## meta line or #CHROM column header"}
		}
		break
	}

	schema, err := ParseHeader(header)
	if err != nil {
		return nil, err
	}
	s.schema = schema
	s.dec = NewDecoder(schema)
	return s, nil
}

// SetPolicy selects the error policy. Call before the first Next.
func (s *Stream) SetPolicy(p Policy) {
	s.policy = p
}

// SetLogger sets the logger used when skipping lines under
// CollectErrors.
func (s *Stream) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Schema returns the schema built from the header block.
func (s *Stream) Schema() *Schema { return s.schema }

// Decoder returns the stream's line decoder.
func (s *Stream) Decoder() *Decoder { return s.dec }

// LineNumber returns the 1-based number of the last line read.
func (s *Stream) LineNumber() int { return s.lineNumber }

// Errs returns the errors collected so far under CollectErrors, one per
// skipped line.
func (s *Stream) Errs() []error { return s.errs }

// Next returns the next record, or (nil, nil) at end of input. Under
// CollectErrors, undecodable lines are skipped and recorded rather
// than returned.
func (s *Stream) Next() (*Record, error) {
	for {
		line, err := s.readLine()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", s.lineNumber+1, err)
		}
		if line == "" {
			continue
		}

		rec, err := s.dec.DecodeLine(line, s.lineNumber)
		if err != nil {
			if s.policy == CollectErrors {
				s.collect(s.lineNumber, err)
				continue
			}
			return nil, err
		}
		return rec, nil
	}
}

// ReadAll drains the stream into a slice.
func (s *Stream) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		r, err := s.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return records, nil
		}
		records = append(records, r)
	}
}

// DecodeAll pushes every remaining data line through a worker pool and
// calls fn with records in input order. Per-line errors follow the
// stream policy. The schema is frozen, so lines decode independently.
func (s *Stream) DecodeAll(fn func(*Record) error) error {
	items := make(chan WorkItem, 2*runtime.NumCPU())
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			line, err := s.readLine()
			if err == io.EOF {
				return
			}
			if err != nil {
				readErr = err
				return
			}
			if line == "" {
				continue
			}
			items <- WorkItem{Seq: seq, Line: line, Num: s.lineNumber}
			seq++
		}
	}()

	results := s.dec.DecodeParallel(items, 0)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			if s.policy == CollectErrors {
				s.collect(r.Num, r.Err)
				return nil
			}
			return r.Err
		}
		return fn(r.Record)
	}); err != nil {
		return err
	}

	if readErr != nil {
		return fmt.Errorf("read input: %w", readErr)
	}
	return nil
}

func (s *Stream) collect(num int, err error) {
	s.errs = append(s.errs, err)
	s.logger.Warn("skipping undecodable line",
		zap.Int("line", num),
		zap.Error(err))
}

// readLine returns the next input line without its terminator. A final
// line with no trailing newline is still returned.
func (s *Stream) readLine() (string, error) {
	if s.eof {
		return "", io.EOF
	}
	line, err := s.reader.ReadString('\n')
	if err == io.EOF {
		s.eof = true
		if line == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", err
	}
	s.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}
