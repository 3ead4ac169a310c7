// Package main is the entry point for irisboot, the container entrypoint for
// the sanitary-surveillance IRIS database image. It starts the instance, runs
// the one-time import script, stops the instance, and execs the vendor's own
// entrypoint, which keeps the container's PID 1 for the rest of its life.
package main

func main() {
	Execute()
}
