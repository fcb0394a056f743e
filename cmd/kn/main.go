package main

import "github.com/SicilyCialo/kannacs/cmd/kn/root"

func main() {
	root.Execute()
}
