package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/restcontract/posts-contract-tests/fakeapi"
	"github.com/restcontract/posts-contract-tests/framework"
	"github.com/restcontract/posts-contract-tests/poststests"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

const (
	programName          = "posts-contract-tests"
	defaultFakeAPIPort   = 7001
	fakeAPIShutdownDelay = time.Second * 5
)

// errTestsFailed is returned after the results have already been reported, so main only needs
// to set the exit code.
var errTestsFailed = errors.New("one or more tests failed")

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var params commandParams

	cmd := &cobra.Command{
		Use:   programName,
		Short: "Contract tests for a REST API serving posts",
		Long: `Runs contract tests against a running posts API.

The target must serve GET/POST /posts and GET/PUT/DELETE /posts/{id} under the base URL,
wrapping every result in a {"data": ...} envelope, and must hold the standard 100-post
seed dataset. Tests create, update and delete posts, so reset the dataset between runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(); err != nil {
				return err
			}
			params.applyEnvironment(cmd.Flags())
			if err := params.validate(); err != nil {
				return err
			}
			return runTests(params, out)
		},
	}
	params.addFlags(cmd.Flags())

	cmd.AddCommand(newFakeServerCommand(out))
	return cmd
}

func runTests(params commandParams, out io.Writer) error {
	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = framework.SlogLogger(slog.New(tint.NewHandler(out, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05.000",
		})))
	}

	parameterSets := []poststests.ParameterSet{poststests.DefaultParameterSet()}
	if params.fixturesPath != "" {
		sets, err := poststests.LoadParameterSets(params.fixturesPath)
		if err != nil {
			return err
		}
		parameterSets = sets
	}

	harness, err := framework.NewTestHarness(
		params.harnessConfig(poststests.StatusPath),
		mainDebugLogger,
		out,
	)
	if err != nil {
		return fmt.Errorf("target service error: %w", err)
	}

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)

	fmt.Fprintf(out, "Running test suite with %d parameter set(s)\n", len(parameterSets))

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := poststests.RunTestSuite(harness, parameterSets, params.filters.AsFilter, testLogger)

	fmt.Fprintln(out)
	framework.PrintResults(out, results)
	if !results.OK() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the failed tests again:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(programName, results.Failures))
		return errTestsFailed
	}
	return nil
}

func newFakeServerCommand(out io.Writer) *cobra.Command {
	var (
		port       int
		seedCount  int
		pathPrefix string
	)

	cmd := &cobra.Command{
		Use:   "fake-server",
		Short: "Serve an in-memory posts API for trying out the tests",
		Long: `Serves an in-memory posts API that passes every contract test, seeded with posts
1 through N where each user owns ten posts. State is lost when the process exits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(tint.NewHandler(out, &tint.Options{TimeFormat: time.TimeOnly}))
			server := fakeapi.NewServer(fakeapi.NewStore(fakeapi.SeedPosts(seedCount)), pathPrefix)
			server.Echo().Use(requestLogger(logger))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(fmt.Sprintf(":%d", port))
			}()
			logger.Info("fake posts API listening", "port", port, "prefix", pathPrefix, "posts", seedCount)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), fakeAPIShutdownDelay)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVar(&port, "port", defaultFakeAPIPort, "port to listen on")
	cmd.Flags().IntVar(&seedCount, "posts", 100, "number of seed posts")
	cmd.Flags().StringVar(&pathPrefix, "prefix", fakeapi.DefaultPathPrefix, "path prefix for the API routes")
	return cmd
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", c.Request().Header.Get(framework.RequestIDHeader),
			)
			return nil
		},
	})
}
