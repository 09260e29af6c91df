package main

import "github.com/goplus/cmakepkg/cmd/cmakepkg/internal"

func main() {
	internal.Execute()
}
