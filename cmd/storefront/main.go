package main

import "github.com/Anand-247/FE-VF/internal/cmd"

func main() {
	cmd.Execute()
}
