package pexconfig_test

import (
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pexconfig "github.com/LSST/pex-config"
)

type FooControl struct {
	Threshold float64 `ctrl:"threshold" doc:"cut level"`
	Count     int     `ctrl:"" type:"int" doc:"number of passes"`
	Skip      int     `ctrl:"-" doc:"not declared"`
	plain     string
	Plain     bool
}

func (c *FooControl) SetDefaults() {
	c.Count = 3
}

type OwnerControl struct {
	Inner FooControl   `ctrl:"inner" module:"pkg.foo" doc:"foo options"`
	Names []string     `ctrl:"names" doc:"names to keep"`
	Dup   []FooControl `ctrl:"-"`
}

func newRegistry(t *testing.T) *pexconfig.Registry {
	t.Helper()
	r, err := pexconfig.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRegister(t *testing.T) {
	r := newRegistry(t)

	s, err := r.Register("pkg.foo", FooControl{})
	if err != nil {
		t.Fatal(err)
	}

	type desc struct{ Name, Type, Doc, Module string }
	var got []desc
	for _, f := range s.Fields() {
		got = append(got, desc{f.Name, f.Type, f.Doc, f.Module})
	}
	want := []desc{
		{"threshold", "float64", "cut level", ""},
		{"count", "int", "number of passes", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	if got, want := s.Unit(), "pkg.foo"; got != want {
		t.Errorf("got %q; expected %q", got, want)
	}
	if got, want := s.Type(), reflect.TypeOf(FooControl{}); got != want {
		t.Errorf("got %v; expected %v", got, want)
	}
}

func TestRegisterInputs(t *testing.T) {
	for _, ctrl := range []interface{}{
		FooControl{},
		&FooControl{},
		reflect.TypeOf(FooControl{}),
	} {
		r := newRegistry(t)
		if _, err := r.Register("pkg.foo", ctrl); err != nil {
			t.Errorf("%T: %v", ctrl, err)
		}
	}

	r := newRegistry(t)
	for _, ctrl := range []interface{}{nil, 1, new(int), "FooControl"} {
		if _, err := r.Register("pkg.bad", ctrl); !errors.Is(err, pexconfig.ErrNotStruct) {
			t.Errorf("%T: got %v; expected %v", ctrl, err, pexconfig.ErrNotStruct)
		}
	}
	if _, err := r.Register("", FooControl{}); !errors.Is(err, pexconfig.ErrEmptyUnit) {
		t.Errorf("got %v; expected %v", err, pexconfig.ErrEmptyUnit)
	}
	if got := r.Units(); len(got) != 0 {
		t.Errorf("unexpected units %v", got)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r := newRegistry(t)
	s1 := r.MustRegister("pkg.foo", FooControl{})
	s2 := r.MustRegister("pkg.foo", &FooControl{})
	if s1 != s2 {
		t.Error("expected the same schema")
	}

	if _, err := r.Register("pkg.foo", OwnerControl{}); !errors.Is(err, pexconfig.ErrUnitConflict) {
		t.Errorf("got %v; expected %v", err, pexconfig.ErrUnitConflict)
	}
	if _, err := r.Register("pkg.foo2", FooControl{}); !errors.Is(err, pexconfig.ErrUnitConflict) {
		t.Errorf("got %v; expected %v", err, pexconfig.ErrUnitConflict)
	}
}

type dupControl struct {
	A int `ctrl:"value" doc:"first"`
	B int `ctrl:"value" doc:"second"`
}

type missingDocControl struct {
	A int `ctrl:"a"`
}

type badTypeControl struct {
	A int `ctrl:"a" type:"double" doc:"a"`
}

type unexportedControl struct {
	a int `ctrl:"a" doc:"a"`
}

type ptrNestedControl struct {
	Inner *FooControl `ctrl:"inner" module:"pkg.foo" doc:"foo options"`
}

type unknownNestedControl struct {
	Inner FooControl `ctrl:"inner" module:"pkg.unknown" doc:"foo options"`
}

type mismatchNestedControl struct {
	Inner FooControl `ctrl:"inner" module:"pkg.owner" doc:"foo options"`
}

type badNameControl struct {
	A int `ctrl:"a.b" doc:"a"`
}

type badFlagControl struct {
	A int `ctrl:"a,bogus" doc:"a"`
}

func TestRegisterErrors(t *testing.T) {
	r := newRegistry(t)
	r.MustRegister("pkg.foo", FooControl{})
	r.MustRegister("pkg.owner", OwnerControl{})

	for _, tc := range []struct {
		label string
		ctrl  interface{}
		err   error
	}{
		{"duplicate", dupControl{}, pexconfig.ErrDuplicateName},
		{"missing doc", missingDocControl{}, pexconfig.ErrMissingDoc},
		{"type mismatch", badTypeControl{}, pexconfig.ErrTypeMismatch},
		{"unexported", unexportedControl{}, pexconfig.ErrUnexported},
		{"nested pointer", ptrNestedControl{}, pexconfig.ErrNotByValue},
		{"unknown provenance", unknownNestedControl{}, pexconfig.ErrUnknownProvenance},
		{"provenance mismatch", mismatchNestedControl{}, pexconfig.ErrProvenanceMismatch},
		{"invalid name", badNameControl{}, pexconfig.ErrInvalidName},
		{"unknown flag", badFlagControl{}, nil},
	} {
		t.Run(tc.label, func(t *testing.T) {
			_, err := r.Register("pkg.bad", tc.ctrl)
			if err == nil {
				t.Fatal("error expected")
			}
			if tc.err != nil && !errors.Is(err, tc.err) {
				t.Errorf("got %v; expected %v", err, tc.err)
			}
			if _, ok := r.Lookup("pkg.bad"); ok {
				t.Error("failed registration must not be recorded")
			}
		})
	}

	if got, want := r.Units(), []string{"pkg.foo", "pkg.owner"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; expected %v", got, want)
	}
}

type Bar struct {
	V int `ctrl:"v" doc:"v"`
}

type signatureControl struct {
	Local     Bar            `ctrl:"local" type:"Bar" module:"pkg.bar" doc:"relative"`
	Qualified Bar            `ctrl:"qualified" type:"pexconfig_test.Bar" module:"pkg.bar" doc:"qualified"`
	List      []Bar          `ctrl:"list" type:"[]Bar" doc:"list of bars"`
	Map       map[string]Bar `ctrl:"map" type:"map[string]Bar" doc:"map of bars"`
	Ptr       *int           `ctrl:"ptr" type:"*int" doc:"pointer"`
}

func TestRegisterSignatures(t *testing.T) {
	r := newRegistry(t)
	r.MustRegister("pkg.bar", Bar{})
	s, err := r.Register("pkg.sig", signatureControl{})
	if err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]string{
		"local":     "Bar",
		"qualified": "pexconfig_test.Bar",
		"list":      "[]Bar",
		"map":       "map[string]Bar",
		"ptr":       "*int",
	} {
		got, err := s.TypeOf(name)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s: got %q; expected %q", name, got, want)
		}
	}
}

func TestSignature(t *testing.T) {
	pkg := reflect.TypeOf(Bar{}).PkgPath()
	for _, tc := range []struct {
		v    interface{}
		want string
	}{
		{0.0, "float64"},
		{[]string{}, "[]string"},
		{Bar{}, "Bar"},
		{[2]*Bar{}, "[2]*Bar"},
		{map[Bar][]int{}, "map[Bar][]int"},
		{errors.New(""), "*errors.errorString"},
	} {
		if got := pexconfig.Signature(reflect.TypeOf(tc.v), pkg); got != tc.want {
			t.Errorf("got %q; expected %q", got, tc.want)
		}
	}
}

func TestRegisterConcurrent(t *testing.T) {
	r := newRegistry(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Register("pkg.foo", FooControl{})
			if err != nil {
				t.Error(err)
				return
			}
			if doc, _ := s.DocOf("threshold"); doc != "cut level" {
				t.Errorf("got %q", doc)
			}
		}()
	}
	wg.Wait()

	units := r.Units()
	sort.Strings(units)
	if got, want := units, []string{"pkg.foo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; expected %v", got, want)
	}
}

func TestDefaultRegistry(t *testing.T) {
	type defaultControl struct {
		A int `ctrl:"a" doc:"a"`
	}
	s := pexconfig.MustRegister("pexconfig_test.default", defaultControl{})
	if got, ok := pexconfig.Lookup("pexconfig_test.default"); !ok || got != s {
		t.Error("schema not found by unit")
	}
	if got, ok := pexconfig.SchemaOf(&defaultControl{}); !ok || got != s {
		t.Error("schema not found by type")
	}
}

// lookupRegistry is the registry consulted by lookupControl.DescribeControl.
var lookupRegistry *pexconfig.Registry

type lookupControl struct {
	Inner FooControl `ctrl:"inner" doc:"inner options" module:"pkg.foo"`
}

func (*lookupControl) DescribeControl() string {
	s, ok := lookupRegistry.Lookup("pkg.foo")
	if !ok {
		return "no inner"
	}
	return "wraps " + s.Name()
}

func TestRegisterDescriberUsesRegistry(t *testing.T) {
	r := newRegistry(t)
	r.MustRegister("pkg.foo", FooControl{})
	lookupRegistry = r
	defer func() { lookupRegistry = nil }()

	done := make(chan *pexconfig.Schema)
	go func() {
		s, err := r.Register("pkg.lookup", lookupControl{})
		if err != nil {
			t.Error(err)
		}
		done <- s
	}()
	select {
	case s := <-done:
		if s != nil && s.Doc() != "wraps FooControl" {
			t.Errorf("got %q; expected %q", s.Doc(), "wraps FooControl")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Register blocked on DescribeControl")
	}
}
