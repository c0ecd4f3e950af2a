// Command ytx extracts video, playlist, search and suggestion metadata
// from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ytget/ytx"
)

var (
	flagTimeout time.Duration
	flagRetries int
	flagUA      string
	flagProxy   string
	flagSigner  string
	flagLang    string
	flagRegion  string
	flagProfile string
	flagNoCache bool
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "ytx",
	Short: "Extract metadata from the platform's private web API",
	Long: `ytx resolves video, playlist, search and suggestion metadata.

Environment (.env is loaded when present):
  YTX_COOKIE      session cookie sent with every request
  YTX_VISITOR_ID  visitor id sent with every request
  YTX_SIGNER_URL  external stream-URL signing service endpoint`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.DurationVar(&flagTimeout, "http-timeout", 30*time.Second, "HTTP timeout (e.g., 30s, 1m)")
	pf.IntVar(&flagRetries, "retries", 3, "HTTP retries for transient errors")
	pf.StringVar(&flagUA, "ua", "", "Override User-Agent header")
	pf.StringVar(&flagProxy, "proxy", "", "Proxy URL (http/https/socks)")
	pf.StringVar(&flagSigner, "signer", "", "Signing service endpoint (overrides YTX_SIGNER_URL)")
	pf.StringVar(&flagLang, "lang", "", "Response language (hl), e.g. 'en'")
	pf.StringVar(&flagRegion, "region", "", "Response region (gl), e.g. 'US'")
	pf.StringVar(&flagProfile, "client", "", "Client profile: WEB, ANDROID, IOS, TVHTML5")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Bypass the response cache")
	pf.BoolVar(&flagJSON, "json", false, "Print raw JSON instead of a summary")
}

// newEngine builds an Engine from flags plus environment.
func newEngine() *ytx.Engine {
	signer := flagSigner
	if signer == "" {
		signer = os.Getenv("YTX_SIGNER_URL")
	}
	e := ytx.NewWith(ytx.Config{
		Timeout:           flagTimeout,
		Retries:           flagRetries,
		UserAgent:         flagUA,
		ProxyURL:          flagProxy,
		SigningServiceURL: signer,
		Language:          flagLang,
		Region:            flagRegion,
		Profile:           flagProfile,
	})
	if cookie := os.Getenv("YTX_COOKIE"); cookie != "" {
		e.SetCookie(cookie)
	}
	if visitorID := os.Getenv("YTX_VISITOR_ID"); visitorID != "" {
		e.SetVisitorID(visitorID)
	}
	return e
}

func callOptions() *ytx.Options {
	return &ytx.Options{
		Language: flagLang,
		Region:   flagRegion,
		Profile:  flagProfile,
		NoCache:  flagNoCache,
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	// .env is optional; absence is not an error
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
