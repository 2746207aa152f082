package structs

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSet(t *testing.T) {
	for _, tc := range []struct {
		label string
		into  interface{}
		v     interface{}
		want  interface{}
		err   bool
	}{
		{"string", new(string), "abc", "abc", false},
		{"int from string", new(int), "0x10", 16, false},
		{"int from float", new(int), 3.0, 3, false},
		{"int from fraction", new(int), 3.5, nil, true},
		{"int8 overflow", new(int8), int64(300), nil, true},
		{"uint from int64", new(uint16), int64(42), uint16(42), false},
		{"float32", new(float32), "1.5", float32(1.5), false},
		{"float32 from float64", new(float32), 0.1, float32(0.1), false},
		{"bool", new(bool), "true", true, false},
		{"bool from int", new(bool), 1, nil, true},
		{"duration", new(time.Duration), "1m30s", 90 * time.Second, false},
		{"duration from int64", new(time.Duration), int64(time.Second), time.Second, false},
		{"slice from csv", new([]int), "1,2,3", []int{1, 2, 3}, false},
		{"slice from any", new([]float64), []interface{}{1.0, int64(2)}, []float64{1, 2}, false},
		{"nested slice", new([][]string), "a;b,c", [][]string{{"a", "b"}, {"c"}}, false},
		{"reset", func() *int { i := 5; return &i }(), nil, 0, false},
	} {
		t.Run(tc.label, func(t *testing.T) {
			value := reflect.ValueOf(tc.into).Elem()
			err := Set(value, tc.v, DefaultSeps)
			if tc.err {
				if err == nil {
					t.Fatalf("expected error, got %v", value.Interface())
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, value.Interface()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetUnaddressable(t *testing.T) {
	if err := Set(reflect.ValueOf(1), 2, nil); err == nil {
		t.Error("error expected")
	}
}

func TestMarshalValue(t *testing.T) {
	for _, tc := range []struct {
		v    interface{}
		want string
	}{
		{nil, ""},
		{"a b", "a b"},
		{int8(-3), "-3"},
		{uint(7), "7"},
		{0.25, "0.25"},
		{true, "true"},
		{2 * time.Millisecond, "2ms"},
		{[]string{"a", "b,c"}, `a,"b,c"`},
		{[][]int{{1, 2}, {3}}, "1;2,3"},
	} {
		got, err := MarshalValue(tc.v, DefaultSeps)
		if err != nil {
			t.Fatalf("%v: %v", tc.v, err)
		}
		if got != tc.want {
			t.Errorf("%v: got %q; expected %q", tc.v, got, tc.want)
		}
	}

	if _, err := MarshalValue(map[string]int{}, DefaultSeps); err == nil {
		t.Error("error expected for maps")
	}
}

func TestMarshalUnmarshalList(t *testing.T) {
	for _, tc := range []struct {
		label string
		in    interface{}
	}{
		{"quoted separator", []string{"x,y", "z"}},
		{"empty", []string{}},
		{"single empty item", []string{""}},
		{"empty items", []string{"", ""}},
		{"nested single empty item", [][]string{{""}, {"a", "b"}}},
	} {
		t.Run(tc.label, func(t *testing.T) {
			s, err := MarshalValue(tc.in, DefaultSeps)
			if err != nil {
				t.Fatal(err)
			}
			out := reflect.New(reflect.TypeOf(tc.in)).Elem()
			if err := UnmarshalValue(out, s, DefaultSeps); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.in, out.Interface(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%q: mismatch (-want +got):\n%s", s, diff)
			}
		})
	}
}

func TestWriteListEmptyItem(t *testing.T) {
	s, err := writeList([]string{""}, ',')
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s, `""`; got != want {
		t.Errorf("got %q; expected %q", got, want)
	}
	items, err := readList(s, ',')
	if err != nil {
		t.Fatal(err)
	}
	if got := len(items); got != 1 || items[0] != "" {
		t.Errorf("got %q; expected one empty item", items)
	}
}
