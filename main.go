/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/weanovas/agency-api/cmd"

func main() {
	cmd.Execute()
}
