package wrap_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pexconfig "github.com/LSST/pex-config"
	"github.com/LSST/pex-config/wrap"
)

type BarControl struct {
	Scale  float64 `ctrl:"scale" doc:"scale factor"`
	Labels []string `ctrl:"labels" doc:"labels"`
}

func (c *BarControl) SetDefaults() {
	c.Scale = 1.5
	c.Labels = []string{"a"}
}

func (c *BarControl) Validate() error {
	if c.Scale <= 0 {
		return errors.New("scale must be positive")
	}
	return nil
}

type FooControl struct {
	Threshold int           `ctrl:"threshold" doc:"cut level"`
	Enabled   bool          `ctrl:"enabled" doc:"enable the cut"`
	Timeout   time.Duration `ctrl:"timeout" doc:"processing timeout"`
	Bar       BarControl    `ctrl:"bar" module:"wrap_test.bar" doc:"bar options"`
	cache     []int
}

func (c *FooControl) SetDefaults() {
	c.Threshold = 5
	c.Timeout = time.Second
}

type unsupportedControl struct {
	M map[string]int `ctrl:"m" doc:"a map"`
}

func newConfigType(t *testing.T) *wrap.ConfigType {
	t.Helper()
	r, err := pexconfig.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	r.MustRegister("wrap_test.bar", BarControl{})
	s := r.MustRegister("wrap_test.foo", FooControl{})
	ct, err := wrap.MakeConfigType(s)
	if err != nil {
		t.Fatal(err)
	}
	return ct
}

func TestMakeConfigType(t *testing.T) {
	ct := newConfigType(t)

	if got, want := ct.Name(), "FooConfig"; got != want {
		t.Errorf("got %q; expected %q", got, want)
	}

	type desc struct {
		Name    string
		Kind    wrap.Kind
		Default interface{}
	}
	var got []desc
	for _, f := range ct.Fields() {
		got = append(got, desc{f.Name, f.Kind, f.Default})
	}
	want := []desc{
		{"threshold", wrap.Scalar, 5},
		{"enabled", wrap.Scalar, false},
		{"timeout", wrap.Scalar, time.Second},
		{"bar", wrap.Nested, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	bar, _ := ct.Lookup("bar")
	labels, _ := bar.Nested.Lookup("labels")
	if labels.Kind != wrap.List {
		t.Errorf("got %v; expected %v", labels.Kind, wrap.List)
	}
}

func TestMakeConfigTypeOptions(t *testing.T) {
	r, _ := pexconfig.NewRegistry()
	r.MustRegister("wrap_test.bar", BarControl{})
	s := r.MustRegister("wrap_test.foo", FooControl{})

	ct, err := wrap.MakeConfigType(s, wrap.OptionName("Custom"), wrap.OptionDoc("custom doc"))
	if err != nil {
		t.Fatal(err)
	}
	if ct.Name() != "Custom" || ct.Doc() != "custom doc" {
		t.Errorf("got %q %q", ct.Name(), ct.Doc())
	}
	if _, err := wrap.MakeConfigType(s, wrap.OptionName("")); err == nil {
		t.Error("error expected")
	}
}

func TestMakeConfigTypeUnsupported(t *testing.T) {
	r, _ := pexconfig.NewRegistry()
	s := r.MustRegister("wrap_test.unsupported", unsupportedControl{})
	_, err := wrap.MakeConfigType(s)
	if !errors.Is(err, wrap.ErrUnsupportedType) {
		t.Errorf("got %v; expected %v", err, wrap.ErrUnsupportedType)
	}
}

func TestConfigDefaults(t *testing.T) {
	ct := newConfigType(t)
	c, err := ct.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"threshold": 5,
		"enabled":   false,
		"timeout":   time.Second,
		"bar": map[string]interface{}{
			"scale":  1.5,
			"labels": []string{"a"},
		},
	}
	if diff := cmp.Diff(want, c.Map()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ct.Schema().Defaults(), c.Map()); diff != "" {
		t.Errorf("defaults differ from the control ones (-want +got):\n%s", diff)
	}
}

func TestConfigNewKeywords(t *testing.T) {
	ct := newConfigType(t)
	c, err := ct.New(map[string]interface{}{
		"threshold": "7",
		"timeout":   "2m",
		"bar":       map[string]interface{}{"labels": "x,y"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Get("threshold"); v != 7 {
		t.Errorf("got %v; expected 7", v)
	}
	if v, _ := c.GetPath("timeout"); v != 2*time.Minute {
		t.Errorf("got %v; expected 2m", v)
	}
	if v, _ := c.GetPath("bar", "labels"); !cmp.Equal(v, []string{"x", "y"}) {
		t.Errorf("got %v", v)
	}

	if _, err := ct.New(map[string]interface{}{"nope": 1}); !errors.Is(err, pexconfig.ErrUnknownField) {
		t.Errorf("got %v; expected %v", err, pexconfig.ErrUnknownField)
	}
	if _, err := ct.New(map[string]interface{}{"threshold": "x"}); err == nil {
		t.Error("error expected")
	}
}

func TestConfigMakeControl(t *testing.T) {
	ct := newConfigType(t)
	c, _ := ct.New(nil)

	if err := c.SetPath(3.0, "bar", "scale"); err != nil {
		t.Fatal(err)
	}
	// Unset fields keep the control defaults.
	if err := c.Set("threshold", nil); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Get("threshold"); v != nil {
		t.Errorf("got %v; expected nil", v)
	}

	v, err := c.MakeControl()
	if err != nil {
		t.Fatal(err)
	}
	ctrl := v.(*FooControl)
	if ctrl.Threshold != 5 || ctrl.Bar.Scale != 3 {
		t.Errorf("unexpected control %+v", ctrl)
	}

	// Configs and controls do not share storage.
	ctrl.Bar.Labels[0] = "changed"
	if v, _ := c.GetPath("bar", "labels"); !cmp.Equal(v, []string{"a"}) {
		t.Errorf("got %v", v)
	}
}

func TestConfigReadControl(t *testing.T) {
	ct := newConfigType(t)
	c, _ := ct.New(nil)

	ctrl := &FooControl{
		Threshold: 9,
		Enabled:   true,
		Bar:       BarControl{Scale: 4, Labels: []string{"z"}},
	}
	if err := c.ReadControl(ctrl); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"threshold": 9,
		"enabled":   true,
		"timeout":   time.Duration(0),
		"bar": map[string]interface{}{
			"scale":  4.0,
			"labels": []string{"z"},
		},
	}
	if diff := cmp.Diff(want, c.Map()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	v, _ := c.MakeControl()
	if diff := cmp.Diff(ctrl, v, cmp.AllowUnexported(FooControl{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if err := c.ReadControl(FooControl{}); !errors.Is(err, pexconfig.ErrWrongType) {
		t.Errorf("got %v; expected %v", err, pexconfig.ErrWrongType)
	}
}

func TestConfigValidate(t *testing.T) {
	ct := newConfigType(t)
	c, _ := ct.New(nil)
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := c.SetPath(-1, "bar", "scale"); err != nil {
		t.Fatal(err)
	}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "scale must be positive") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestConfigNested(t *testing.T) {
	ct := newConfigType(t)
	a, _ := ct.New(nil)
	b, _ := ct.New(nil)

	bar, err := b.Get("bar")
	if err != nil {
		t.Fatal(err)
	}
	if err := bar.(*wrap.Config).Set("scale", 8); err != nil {
		t.Fatal(err)
	}
	if err := a.Set("bar", bar); err != nil {
		t.Fatal(err)
	}
	if v, _ := a.GetPath("bar", "scale"); v != 8.0 {
		t.Errorf("got %v; expected 8", v)
	}

	// a holds a copy.
	_ = bar.(*wrap.Config).Set("scale", 9)
	if v, _ := a.GetPath("bar", "scale"); v != 8.0 {
		t.Errorf("got %v; expected 8", v)
	}

	if err := a.Set("bar", 1); err == nil {
		t.Error("error expected")
	}
	if err := a.SetPath(1, "threshold", "x"); err == nil {
		t.Error("error expected")
	}
}

func TestConfigWalk(t *testing.T) {
	ct := newConfigType(t)
	c, _ := ct.New(nil)

	var paths []string
	err := c.Walk(func(path []string, f *wrap.Field, v interface{}) error {
		paths = append(paths, strings.Join(path, "."))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"threshold", "enabled", "timeout", "bar.scale", "bar.labels"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if got := fmt.Sprintf("%#v", c); !strings.HasPrefix(got, "FooConfig") {
		t.Errorf("unexpected GoString %s", got)
	}
}
