package curl

import (
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/curlcurl/frame"
)

type Format uint8

const (
	Text Format = iota
	LaTeX
	YAML
)

var formatNames = map[string]Format{
	"text":  Text,
	"latex": LaTeX,
	"yaml":  YAML,
}

func (f Format) String() string {
	for name, v := range formatNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

func ParseFormat(s string) (f Format, err error) {
	var ok bool
	if f, ok = formatNames[strings.ToLower(s)]; !ok {
		err = fmt.Errorf("unknown output format %q, want one of text, latex, yaml", s)
	}
	return
}

// Labels of the three printed sections, in order.
var Labels = [3]string{"V", "curl V", "curl curl V"}

// Report is the serialized form of a Result.
type Report struct {
	Frame    string `json:"frame"`
	Field    string `json:"field"`
	Curl     string `json:"curl"`
	CurlCurl string `json:"curlCurl"`
}

// Fields returns V, curl V and curl curl V in print order.
func (res *Result) Fields() [3]frame.Vector {
	return [3]frame.Vector{res.Field, res.Curl, res.CurlCurl}
}

func (res *Result) Report() Report {
	return Report{
		Frame:    res.Frame.Name(),
		Field:    res.Field.String(),
		Curl:     res.Curl.String(),
		CurlCurl: res.CurlCurl.String(),
	}
}

// Write renders the result. Text and LaTeX print each labelled field after a
// blank line; YAML prints the Report.
func (res *Result) Write(w io.Writer, format Format) (err error) {
	var body []byte
	switch format {
	case Text, LaTeX:
		for i, v := range res.Fields() {
			s := v.String()
			if format == LaTeX {
				s = v.LaTeX()
			}
			if _, err = fmt.Fprintf(w, "\n%s = %s\n", Labels[i], s); err != nil {
				return
			}
		}
		_, err = fmt.Fprintln(w)
		return
	case YAML:
		if body, err = yaml.Marshal(res.Report()); err != nil {
			return
		}
		_, err = w.Write(body)
		return
	}
	return fmt.Errorf("unknown output format %v", format)
}
