package main

import "github.com/notargets/curlcurl/cmd"

func main() {
	cmd.Execute()
}
