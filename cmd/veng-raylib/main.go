// cmd/veng-raylib/main.go
package main

import (
	"os"
	"path/filepath"

	"github.com/waozixyz/veng/internal/demo"
	"github.com/waozixyz/veng/internal/launch"
)

func main() {
	os.Exit(launch.Main(filepath.Base(os.Args[0]), demo.PhysicsTitle, os.Args[1:], demo.Physics))
}
