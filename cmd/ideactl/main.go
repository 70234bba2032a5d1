// Command ideactl inspects and edits the Community Ideas Board from a shell,
// using the same configuration and storage as the server. Stop the server
// first when using the bolt driver; the file is locked while it runs.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
