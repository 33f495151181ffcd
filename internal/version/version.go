// ABOUTME: Build identification constants
// ABOUTME: Reported in logs and the HTTP server banner
package version

const (
	// Version is the semantic version of this build.
	Version = "0.1.0"

	// Product is the user-visible product name.
	Product = "Dominacao"

	// Manufacturer identifies who ships the product.
	Manufacturer = "Sandi Games"
)
