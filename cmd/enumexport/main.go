package main

import "github.com/dbsmedya/enumexport/cmd/enumexport/cmd"

func main() {
	cmd.Execute()
}
