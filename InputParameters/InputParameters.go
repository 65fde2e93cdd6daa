package InputParameters

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title        string       `json:"Title"`
	Frame        string       `json:"Frame"`
	SamplePoints [][3]float64 `json:"SamplePoints"`
	Tolerance    float64      `json:"Tolerance"`
	Step         float64      `json:"Step"`  // finite difference step for the verification
	Steps        []float64    `json:"Steps"` // step sequence of the convergence study
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func ReadFile(fileName string) (ip *InputParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("parsing input parameters file %s: %w", fileName, err)
		ip = nil
	}
	return
}

func (ip *InputParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t\t= Frame\n", ip.Frame)
	fmt.Fprintf(w, "%8.2e\t\t= Tolerance\n", ip.Tolerance)
	fmt.Fprintf(w, "%8.2e\t\t= Step\n", ip.Step)
	fmt.Fprintf(w, "%v\t= Steps\n", ip.Steps)
	for i, x := range ip.SamplePoints {
		fmt.Fprintf(w, "SamplePoints[%d] = %v\n", i, x)
	}
}

// Example is a complete parameters file, shown in the -I flag help.
const Example = `
########################################
Title: "Sample Points"
Frame: R
SamplePoints:
  - [1, 2, 3]
  - [-0.4, 0.25, 2.2]
Tolerance: 1.e-6
Step: 1.e-5
Steps: [0.1, 0.05, 0.025, 0.0125]
########################################
`
