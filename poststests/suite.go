package poststests

import (
	"fmt"

	"github.com/restcontract/posts-contract-tests/framework"
)

// RunTestSuite runs every test once for each parameter set. The groups run in a fixed order so
// that the read-only tests see the seed data before anything is created, updated or deleted.
func RunTestSuite(
	harness *framework.TestHarness,
	parameterSets []ParameterSet,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		for i, params := range parameterSets {
			t := newTestScope(c, harness, params)
			t.Run(parameterSetName(i, params), func(t *T) {
				t.Run("GET", DoGetTests)
				t.Run("POST", DoPostTests)
				t.Run("PUT", DoPutTests)
				t.Run("DELETE", DoDeleteTests)
			})
		}
	})
}

func parameterSetName(index int, params ParameterSet) string {
	if params.Name != "" {
		return params.Name
	}
	return fmt.Sprintf("parameter set %d", index+1)
}

// StatusPath is the path the harness polls at startup to decide that the target is ready.
const StatusPath = postsPath
