// Command c4model edits, validates and converts C4 architecture models.
package main

func main() {
	Execute()
}
