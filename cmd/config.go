package cmd

// Config carries the process configuration, loaded from the environment by
// the entrypoint.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// MaxOfferRadiusKm caps how far from the restaurant a driver may be to
	// receive an offer. Zero disables the cut-off.
	MaxOfferRadiusKm float64
}
