package main

import "github.com/oshokin/java-packager/cmd/java-packager/cmd"

func main() {
	cmd.Execute()
}
