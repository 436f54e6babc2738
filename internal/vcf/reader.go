package vcf

import (
	"compress/gzip"
	"fmt"
	"os"
)

// File is a Stream over an opened VCF file. Compression is detected
// from the gzip magic bytes rather than the file name, so .vcf, .vcf.gz
// and bgzipped files all work.
type File struct {
	*Stream
	file       *os.File
	gzipReader *gzip.Reader
}

// Open opens a VCF file and consumes its header block. Use "-" to read
// from standard input.
func Open(path string) (*File, error) {
	if path == "-" {
		stream, err := NewStream(os.Stdin)
		if err != nil {
			return nil, err
		}
		return &File{Stream: stream}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	f := &File{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && n == 0 {
		file.Close()
		return nil, fmt.Errorf("read vcf file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	var stream *Stream
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		f.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		stream, err = NewStream(f.gzipReader)
	} else {
		stream, err = NewStream(file)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	f.Stream = stream
	return f, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	if f.gzipReader != nil {
		f.gzipReader.Close()
	}
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}
