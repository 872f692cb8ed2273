package sink

import (
	"bufio"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/vegasq/pqline/internal/errors"
)

// Encoding describes how text lines become bytes.
type Encoding struct {
	// Newline is LF, CRLF or CR.
	Newline string
	// Charset is an IANA character set name such as UTF-8, ISO-8859-1 or
	// Shift_JIS.
	Charset string
	// Compression is none, gzip, zstd, lz4 or brotli.
	Compression string
}

// DefaultEncoding returns LF, UTF-8, uncompressed.
func DefaultEncoding() Encoding {
	return Encoding{Newline: "LF", Charset: "UTF-8", Compression: "none"}
}

// Validate reports whether every option names a supported value.
func (e Encoding) Validate() error {
	_, err := e.resolve()
	return err
}

type resolvedEncoding struct {
	newline  string
	charset  encoding.Encoding // nil for UTF-8
	compress func(w io.Writer) (compressor, error)
}

// compressor is the subset shared by the compression writers.
type compressor interface {
	io.WriteCloser
	Flush() error
}

func (e Encoding) resolve() (resolvedEncoding, error) {
	var r resolvedEncoding

	switch strings.ToUpper(strings.TrimSpace(e.Newline)) {
	case "", "LF":
		r.newline = "\n"
	case "CRLF":
		r.newline = "\r\n"
	case "CR":
		r.newline = "\r"
	default:
		return r, errors.Configf("unsupported newline %q (want LF, CRLF or CR)", e.Newline)
	}

	cs, err := lookupCharset(e.Charset)
	if err != nil {
		return r, err
	}
	r.charset = cs

	switch strings.ToLower(strings.TrimSpace(e.Compression)) {
	case "", "none":
	case "gzip", "gz":
		r.compress = func(w io.Writer) (compressor, error) {
			return gzip.NewWriter(w), nil
		}
	case "zstd":
		r.compress = func(w io.Writer) (compressor, error) {
			return zstd.NewWriter(w)
		}
	case "lz4":
		r.compress = func(w io.Writer) (compressor, error) {
			return lz4.NewWriter(w), nil
		}
	case "brotli", "br":
		r.compress = func(w io.Writer) (compressor, error) {
			return brotli.NewWriter(w), nil
		}
	default:
		return r, errors.Configf("unsupported compression %q (want none, gzip, zstd, lz4 or brotli)", e.Compression)
	}
	return r, nil
}

// lookupCharset returns nil for UTF-8, which needs no transcoding.
func lookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8") {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "unknown charset %q", name), errors.ErrConfig)
	}
	if enc == nil {
		return nil, errors.Configf("charset %q is not supported", name)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

// encoder is the write chain for one output unit:
// bufio -> charset transcoder -> compressor -> destination.
type encoder struct {
	buf     *bufio.Writer
	text    io.WriteCloser // charset transformer, nil for UTF-8
	comp    compressor     // nil when uncompressed
	newline string
}

func newEncoder(w io.Writer, r resolvedEncoding) (*encoder, error) {
	e := &encoder{newline: r.newline}

	if r.compress != nil {
		c, err := r.compress(w)
		if err != nil {
			return nil, errors.Wrap(err, "create compressor")
		}
		e.comp = c
		w = c
	}
	if r.charset != nil {
		e.text = transform.NewWriter(w, r.charset.NewEncoder())
		w = e.text
	}
	e.buf = bufio.NewWriter(w)
	return e, nil
}

func (e *encoder) writeText(s string) error {
	_, err := e.buf.WriteString(s)
	return err
}

func (e *encoder) writeNewline() error {
	_, err := e.buf.WriteString(e.newline)
	return err
}

func (e *encoder) flush() error {
	if err := e.buf.Flush(); err != nil {
		return err
	}
	if e.comp != nil {
		return e.comp.Flush()
	}
	return nil
}

// close finishes the chain without closing the destination.
func (e *encoder) close() error {
	err := e.buf.Flush()
	if e.text != nil {
		err = errors.CombineErrors(err, e.text.Close())
	}
	if e.comp != nil {
		err = errors.CombineErrors(err, e.comp.Close())
	}
	return err
}
