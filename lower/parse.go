// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package lower

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BusPinName returns the name of a single pin of a bus.
//
func BusPinName(name string, bit int) string {
	return name + "[" + strconv.Itoa(bit) + "]"
}

// parseIOSpec expands a port declaration string into individual pin names.
// For example:
//
//	parseIOSpec("a, b, sum[3]") // []string{"a", "b", "sum[0]", "sum[1]", "sum[2]"}
//
func parseIOSpec(spec string) ([]string, error) {
	var out []string
	for _, f := range splitFields(spec) {
		name, idx, err := parseName(f)
		if err != nil {
			return nil, err
		}
		switch {
		case idx == nil:
			out = append(out, name)
		case len(idx) == 1:
			if idx[0] < 1 {
				return nil, errors.Errorf("invalid bus size in %q", f)
			}
			for i := 0; i < idx[0]; i++ {
				out = append(out, BusPinName(name, i))
			}
		default:
			return nil, errors.Errorf("unexpected bit range in port declaration %q", f)
		}
	}
	return out, nil
}

// IO expands a port declaration string into individual pin names and panics
// on a malformed declaration. Use it for static PartSpec values; Chip parses
// its own declarations and returns errors instead.
//
func IO(spec string) []string {
	pins, err := parseIOSpec(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// A Conn connects part pins to wires in the part's container. Both sides are
// expanded to individual pin and wire names.
//
type Conn struct {
	Pins  []string
	Wires []string
}

// ParseConnections parses a connection description string. Each element is a
// "pin=wire" pair; both sides accept single names (a), bus bits (a[2]) and
// bit ranges (a[0..3]).
//
//	ParseConnections("a=x, in[0..1]=data[2..3], out=sum[0]")
//
func ParseConnections(conns string) ([]Conn, error) {
	var out []Conn
	for _, f := range splitFields(conns) {
		eq := strings.IndexByte(f, '=')
		if eq < 0 {
			return nil, errors.Errorf("missing '=' in connection %q", f)
		}
		pins, err := expandRange(strings.TrimSpace(f[:eq]))
		if err != nil {
			return nil, errors.Wrapf(err, "connection %q", f)
		}
		wires, err := expandRange(strings.TrimSpace(f[eq+1:]))
		if err != nil {
			return nil, errors.Wrapf(err, "connection %q", f)
		}
		out = append(out, Conn{Pins: pins, Wires: wires})
	}
	return out, nil
}

// expandRange expands "name[lo..hi]" into per-bit names. Plain names and
// single bits pass through as a one element slice.
//
func expandRange(s string) ([]string, error) {
	name, idx, err := parseName(s)
	if err != nil {
		return nil, err
	}
	switch len(idx) {
	case 0:
		return []string{s}, nil
	case 1:
		return []string{s}, nil
	default:
		if idx[1] < idx[0] {
			return nil, errors.Errorf("reversed bit range in %q", s)
		}
		r := make([]string, 0, idx[1]-idx[0]+1)
		for i := idx[0]; i <= idx[1]; i++ {
			r = append(r, BusPinName(name, i))
		}
		return r, nil
	}
}

// parseName splits a pin reference into its base name and optional indices:
// nil for a plain name, one element for "a[3]", two for "a[0..3]".
func parseName(s string) (name string, idx []int, err error) {
	i := strings.IndexByte(s, '[')
	if i < 0 {
		if !validName(s) {
			return "", nil, errors.Errorf("invalid name %q", s)
		}
		return s, nil, nil
	}
	name = s[:i]
	if !validName(name) {
		return "", nil, errors.Errorf("invalid name %q", s)
	}
	if !strings.HasSuffix(s, "]") {
		return "", nil, errors.Errorf("missing ] in %q", s)
	}
	spec := s[i+1 : len(s)-1]
	if r := strings.Index(spec, ".."); r >= 0 {
		lo, err := strconv.Atoi(strings.TrimSpace(spec[:r]))
		if err != nil {
			return "", nil, errors.Errorf("invalid bit range in %q", s)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(spec[r+2:]))
		if err != nil {
			return "", nil, errors.Errorf("invalid bit range in %q", s)
		}
		return name, []int{lo, hi}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(spec))
	if err != nil {
		return "", nil, errors.Errorf("invalid bus index in %q", s)
	}
	return name, []int{n}, nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
