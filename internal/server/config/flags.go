package config

import (
	"flag"
	"os"
	"time"

	"github.com/skurlov/identsvc/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-o int      one-time code validity, minutes
//	-m string   SMTP host
//	-p int      SMTP port
//	-u string   SMTP username
//	-w string   SMTP password
//	-f string   notification sender address
//	-n string   notification sender name
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-o", "-m", "-p", "-u", "-w", "-f", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")
	codeValidityDuration := fs.Int("o", int(config.CodeValidityDuration.Minutes()), "code_validity_duration (in minutes)")

	fs.StringVar(&config.SMTPHost, "m", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "p", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUsername, "u", config.SMTPUsername, "SMTP username")
	fs.StringVar(&config.SMTPPassword, "w", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.FromEmail, "f", config.FromEmail, "notification sender address")
	fs.StringVar(&config.FromName, "n", config.FromName, "notification sender name")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.CodeValidityDuration = time.Duration(*codeValidityDuration) * time.Minute
}
