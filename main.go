package main

import "github.com/firmscout/firmscout/cmd/firmscout"

func main() { firmscout.Execute() }
