package main

import (
	"os"
)

// @title Back-office Ledger API
// @version 1.0
// @description Cash drawers, bank accounts, invoices and the payments that settle them.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
