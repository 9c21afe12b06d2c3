package main

import (
	"os"

	"github.com/shandysiswandi/newsletter/internal/cmd"
)

// @title           Newsletter API
// @version         1.0
// @description     Newsletter subscription intake and confirmation APIs.
// @contact.name    Contact Support
// @contact.email   support@newsletter.local
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
