package main

import (
	"github.com/airenas/ibm1/internal/app/align"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	align.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
   _ __                  ___
  (_) /_  ____ ___      <  /
 / / __ \/ __ ` + "`" + `__ \     / /
/ / /_/ / / / / / /    / /
/_/_.___/_/ /_/ /_/    /_/   v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/airenas/ibm1"))
}
