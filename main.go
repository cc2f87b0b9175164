package main

import "github.com/Allena9/Campus-Equipment-Checkout-Database-Application/cmd"

func main() {
	cmd.Execute()
}
