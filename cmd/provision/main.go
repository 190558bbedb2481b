// Command provision applies the reservation-system schema to a database.
package main

import "github.com/aqasim81/reservation-provisioner/internal/cli"

func main() {
	cli.Execute()
}
