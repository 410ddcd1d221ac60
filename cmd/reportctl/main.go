// Command reportctl drives the branch report API from a terminal.
package main

func main() {
	Execute()
}
