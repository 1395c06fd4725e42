// Command oxy-shade runs the engine's workers and inspects its shaders and reference kernels.
package main

import (
	"os"
	"runtime"
)

func init() {
	// GLFW must own the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
