// Command tbwt builds and queries Tree Burrows-Wheeler Transform
// indexes over forests of ordinal labeled trees.
package main

import "github.com/arbwt/tbwt/cmd/tbwt/cmd"

func main() {
	cmd.Execute()
}
