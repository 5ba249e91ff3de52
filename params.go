package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/restcontract/posts-contract-tests/framework"

	"github.com/alessio/shellescape"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	defaultServiceURL     = "http://localhost:7001/api"
	defaultStatusTimeout  = time.Second * 10
	defaultRequestTimeout = time.Second * 10

	envServiceURL = "POSTS_API_URL"
	envFixtures   = "POSTS_FIXTURES"
)

type commandParams struct {
	serviceURL     string
	fixturesPath   string
	filters        framework.RegexFilters
	statusTimeout  time.Duration
	requestTimeout time.Duration
	debug          bool
	debugAll       bool
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.serviceURL, "url", defaultServiceURL, "base URL of the posts API (env "+envServiceURL+")")
	fs.StringVar(&c.fixturesPath, "fixtures", "", "YAML or JSON file of parameter sets (env "+envFixtures+")")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run, one element per level, like go test")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) matching full test IDs not to run")
	fs.DurationVar(&c.statusTimeout, "status-timeout", defaultStatusTimeout, "how long to wait for the target to respond at startup")
	fs.DurationVar(&c.requestTimeout, "request-timeout", defaultRequestTimeout, "timeout for each request made by a test")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
}

// loadDotEnv reads a .env file in the working directory if there is one. Variables that are
// already set in the environment take precedence.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("can't load .env file: %w", err)
}

// applyEnvironment fills in values from environment variables for any flags that were not
// given on the command line.
func (c *commandParams) applyEnvironment(fs *pflag.FlagSet) {
	if v := os.Getenv(envServiceURL); v != "" && !fs.Changed("url") {
		c.serviceURL = v
	}
	if v := os.Getenv(envFixtures); v != "" && !fs.Changed("fixtures") {
		c.fixturesPath = v
	}
}

func (c *commandParams) validate() error {
	if c.serviceURL == "" {
		return errors.New("--url is required")
	}
	u, err := url.Parse(c.serviceURL)
	if err != nil {
		return fmt.Errorf("invalid --url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --url %q: must be an absolute http or https URL", c.serviceURL)
	}
	if c.statusTimeout <= 0 || c.requestTimeout <= 0 {
		return errors.New("timeouts must be greater than zero")
	}
	return nil
}

func (c *commandParams) harnessConfig(statusPath string) framework.HarnessConfig {
	return framework.HarnessConfig{
		BaseURL:            c.serviceURL,
		StatusPath:         statusPath,
		StatusQueryTimeout: c.statusTimeout,
		RequestTimeout:     c.requestTimeout,
	}
}

// rerunCommand builds a shell command line that runs only the given tests again.
func (c *commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program, "--url", c.serviceURL)
	if c.fixturesPath != "" {
		b.add("--fixtures", c.fixturesPath)
	}
	for _, f := range failures {
		b.add("--run", exactTestPattern(f.TestID))
	}
	return b.String()
}

func exactTestPattern(id framework.TestID) string {
	elements := make([]string, 0, len(id.Path))
	for _, name := range id.Path {
		elements = append(elements, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(elements, "/")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
