package output

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/vegasq/pqline/internal/errors"
)

// DefaultTimestampFormat renders microsecond precision with a numeric offset,
// e.g. "2023-01-01 00:00:00.000000 +0000".
const DefaultTimestampFormat = "%Y-%m-%d %H:%M:%S.%6N %z"

// strftimeDirectives lists the conversion characters passed through to
// go-strftime. Sub-second (%N, %L) and epoch (%s) directives are rendered
// locally.
const strftimeDirectives = "aAbBcCdDeFgGhHIjklmMnpPrRStTuUvVwWxXyYzZ+"

// flagDirectives lists, per flag, the directives that accept it: "-" drops
// zero padding and ":" puts a colon in the numeric offset.
var flagDirectives = map[byte]string{
	'-': "dHIjmMSUVW",
	':': "z",
}

// tsPart is one compiled piece of a timestamp pattern: either a strftime
// chunk or a locally rendered directive.
type tsPart struct {
	strf   string
	digits int  // sub-second digits, 0 when unused
	epoch  bool // %s
}

// TimestampFormatter renders instants with a strftime pattern in a fixed
// location. It is immutable after construction and safe for concurrent use.
type TimestampFormatter struct {
	pattern string
	loc     *time.Location
	parts   []tsPart
}

// NewTimestampFormatter compiles pattern for rendering in loc. A nil loc
// means UTC.
func NewTimestampFormatter(pattern string, loc *time.Location) (*TimestampFormatter, error) {
	if loc == nil {
		loc = time.UTC
	}
	parts, err := compileTimestampPattern(pattern)
	if err != nil {
		return nil, err
	}
	return &TimestampFormatter{pattern: pattern, loc: loc, parts: parts}, nil
}

// Format converts t into the formatter's location and renders it.
func (f *TimestampFormatter) Format(t time.Time) string {
	t = t.In(f.loc)

	var b strings.Builder
	for _, p := range f.parts {
		switch {
		case p.digits > 0:
			ns := strconv.Itoa(t.Nanosecond())
			ns = strings.Repeat("0", 9-len(ns)) + ns
			b.WriteString(ns[:p.digits])
		case p.epoch:
			b.WriteString(strconv.FormatInt(t.Unix(), 10))
		default:
			b.WriteString(strftime.Format(p.strf, t))
		}
	}
	return b.String()
}

// Location returns the zone timestamps are rendered in.
func (f *TimestampFormatter) Location() *time.Location {
	return f.loc
}

// Pattern returns the source pattern.
func (f *TimestampFormatter) Pattern() string {
	return f.pattern
}

func compileTimestampPattern(pattern string) ([]tsPart, error) {
	var (
		parts []tsPart
		chunk strings.Builder
	)
	flush := func() {
		if chunk.Len() > 0 {
			parts = append(parts, tsPart{strf: chunk.String()})
			chunk.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			chunk.WriteByte(c)
			continue
		}

		j := i + 1
		var flag byte
		if j < len(pattern) && (pattern[j] == '-' || pattern[j] == ':') {
			flag = pattern[j]
			j++
		}
		start := j
		for j < len(pattern) && pattern[j] >= '0' && pattern[j] <= '9' {
			j++
		}
		if j >= len(pattern) {
			return nil, errors.Configf("invalid timestamp format %q: dangling %%", pattern)
		}
		width := pattern[start:j]
		directive := pattern[j]
		i = j

		if flag != 0 && strings.IndexByte(flagDirectives[flag], directive) < 0 {
			return nil, errors.Configf("invalid timestamp format %q: flag %c not supported for %%%c", pattern, flag, directive)
		}

		switch directive {
		case 'N':
			digits := 9
			if width != "" {
				n, err := strconv.Atoi(width)
				if err != nil || n < 1 || n > 9 {
					return nil, errors.Configf("invalid timestamp format %q: %%N width must be 1..9", pattern)
				}
				digits = n
			}
			flush()
			parts = append(parts, tsPart{digits: digits})
			continue
		}

		if width != "" {
			return nil, errors.Configf("invalid timestamp format %q: width not supported for %%%c", pattern, directive)
		}

		switch {
		case directive == 'L':
			flush()
			parts = append(parts, tsPart{digits: 3})
		case directive == 's':
			flush()
			parts = append(parts, tsPart{epoch: true})
		case directive == '%':
			chunk.WriteString("%%")
		case strings.IndexByte(strftimeDirectives, directive) >= 0:
			chunk.WriteByte('%')
			if flag != 0 {
				chunk.WriteByte(flag)
			}
			chunk.WriteByte(directive)
		default:
			return nil, errors.Configf("invalid timestamp format %q: unknown directive %%%c", pattern, directive)
		}
	}
	flush()
	return parts, nil
}

var offsetZoneRe = regexp.MustCompile(`^([+-])(\d{2})(?::?(\d{2}))?$`)

// ParseTimezone resolves a zone identifier. It accepts "UTC", "Z", fixed
// offsets ("+09:00", "-0530", "+09") and IANA names ("Asia/Tokyo"). An empty
// identifier means UTC.
func ParseTimezone(id string) (*time.Location, error) {
	id = strings.TrimSpace(id)
	switch id {
	case "", "UTC", "Z":
		return time.UTC, nil
	}

	if m := offsetZoneRe.FindStringSubmatch(id); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours > 23 || minutes > 59 {
			return nil, errors.Configf("invalid timezone %q: offset out of range", id)
		}
		secs := hours*3600 + minutes*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(id, secs), nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "invalid timezone %q", id), errors.ErrConfig),
			"use UTC, a fixed offset such as +09:00, or an IANA name such as Asia/Tokyo",
		)
	}
	return loc, nil
}
