package lower

import (
	"reflect"
	"testing"
)

func Test_parseIOSpec(t *testing.T) {
	td := []struct {
		spec string
		want []string
		err  bool
	}{
		{"a, b", []string{"a", "b"}, false},
		{"sum[3]", []string{"sum[0]", "sum[1]", "sum[2]"}, false},
		{"a, out[2], cin", []string{"a", "out[0]", "out[1]", "cin"}, false},
		{"", nil, false},
		{"a, ", []string{"a"}, false},
		{"2b", nil, true},
		{"a[0]", nil, true}, // size must be positive
		{"a[0..3]", nil, true},
		{"a[", nil, true},
	}
	for _, d := range td {
		got, err := parseIOSpec(d.spec)
		if d.err {
			if err == nil {
				t.Errorf("parseIOSpec(%q): expected error", d.spec)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseIOSpec(%q): %v", d.spec, err)
			continue
		}
		if !reflect.DeepEqual(got, d.want) {
			t.Errorf("parseIOSpec(%q) = %v, want %v", d.spec, got, d.want)
		}
	}
}

func Test_ParseConnections(t *testing.T) {
	td := []struct {
		conns string
		want  []Conn
		err   bool
	}{
		{"a=x", []Conn{{[]string{"a"}, []string{"x"}}}, false},
		{"a=x, b=y", []Conn{{[]string{"a"}, []string{"x"}}, {[]string{"b"}, []string{"y"}}}, false},
		{"in[0..2]=d[1..3]", []Conn{{
			[]string{"in[0]", "in[1]", "in[2]"},
			[]string{"d[1]", "d[2]", "d[3]"}}}, false},
		{"a=true, b=false", []Conn{{[]string{"a"}, []string{"true"}}, {[]string{"b"}, []string{"false"}}}, false},
		{"a[2]=x[0]", []Conn{{[]string{"a[2]"}, []string{"x[0]"}}}, false},
		{"a", nil, true},
		{"a=x[3..1]", nil, true},
		{"=x", nil, true},
		{"a=x..y", nil, true},
	}
	for _, d := range td {
		got, err := ParseConnections(d.conns)
		if d.err {
			if err == nil {
				t.Errorf("ParseConnections(%q): expected error", d.conns)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConnections(%q): %v", d.conns, err)
			continue
		}
		if !reflect.DeepEqual(got, d.want) {
			t.Errorf("ParseConnections(%q) = %v, want %v", d.conns, got, d.want)
		}
	}
}

func Test_expandRange(t *testing.T) {
	got, err := expandRange("data[2..4]")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"data[2]", "data[3]", "data[4]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandRange(data[2..4]) = %v, want %v", got, want)
	}
	if _, err = expandRange("data[4..2]"); err == nil {
		t.Error("expandRange(data[4..2]): expected error")
	}
}

func Test_validName(t *testing.T) {
	for _, n := range []string{"a", "A_b", "x1", "_x"} {
		if !validName(n) {
			t.Errorf("validName(%q) = false", n)
		}
	}
	for _, n := range []string{"", "1a", "a-b", "a.b", "a b"} {
		if validName(n) {
			t.Errorf("validName(%q) = true", n)
		}
	}
}
