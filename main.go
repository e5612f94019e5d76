package main

import "github.com/KaramelBytes/conectividad/cmd"

func main() {
	cmd.Execute()
}
