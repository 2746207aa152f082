package pexconfig_test

import (
	"fmt"
	"os"

	pexconfig "github.com/LSST/pex-config"
)

type CutControl struct {
	Threshold float64  `ctrl:"threshold" doc:"cut level"`
	Bands     []string `ctrl:"bands" doc:"bands to cut on"`
}

func (c *CutControl) SetDefaults() {
	c.Threshold = 2.5
	c.Bands = []string{"g", "r"}
}

type MeasureControl struct {
	Cut    CutControl `ctrl:"cut" module:"example.cut" doc:"cut options"`
	Radius int        `ctrl:"radius" doc:"aperture radius in pixels"`
}

func Example() {
	r, err := pexconfig.NewRegistry()
	if err != nil {
		fmt.Println(err)
		return
	}
	r.MustRegister("example.cut", CutControl{})
	s, err := r.Register("example.measure", MeasureControl{})
	if err != nil {
		fmt.Println(err)
		return
	}

	doc, _ := s.DocOf("radius")
	typ, _ := s.TypeOf("radius")
	module, _ := s.Provenance("cut")
	fmt.Println(doc, typ, module)

	ctrl := s.New().(*MeasureControl)
	fmt.Printf("%+v\n", *ctrl)

	// Output:
	// aperture radius in pixels int example.cut
	// {Cut:{Threshold:2.5 Bands:[g r]} Radius:0}
}

func ExampleUsage() {
	r, _ := pexconfig.NewRegistry()
	r.MustRegister("example.cut", CutControl{})
	s := r.MustRegister("example.measure", MeasureControl{})

	if err := pexconfig.Usage(s, os.Stdout); err != nil {
		fmt.Println(err)
	}

	// Output:
	// MeasureControl (example.measure):
	//  cut           pexconfig_test.CutControl cut options (example.cut)
	//  cut.threshold float64                   cut level
	//  cut.bands     []string                  bands to cut on
	//  radius        int                       aperture radius in pixels
}
