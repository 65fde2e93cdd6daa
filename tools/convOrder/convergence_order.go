package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/notargets/curlcurl/verify"
)

var (
	csvFile string
)

// Summarizes the CSV written by "curlcurl convergence", possibly several
// studies concatenated into one file.
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	studies, err := verify.ReadCSV(f)
	if err != nil {
		panic(err)
	}
	for _, cs := range studies {
		orders := cs.Orders()
		fmt.Printf("Title = %s, Steps = %d\n", cs.Title, len(cs.Steps))
		for i := range cs.Steps {
			fmt.Printf("%10.4g, %12.5e, %6.3f\n", cs.Steps[i], cs.Errors[i], orders[i])
		}
		if n := len(orders); n > 1 {
			fmt.Printf("Asymptotic order = %5.3f\n", orders[n-1])
		}
	}
}
