package main

import "github.com/Sarvesh5273/PhantomOps/cmd/opsctl/cmd"

func main() {
	cmd.Execute()
}
