/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/numpanel/apiserver/cmd"

func main() {
	cmd.Execute()
}
