package poststests

import (
	"net/http"
	"strings"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/restcontract/posts-contract-tests/fakeapi"
	"github.com/restcontract/posts-contract-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allDefaultTestIDs = []string{
	"default/GET/list all posts",
	"default/GET/get post by id",
	"default/GET/get post with invalid id",
	"default/GET/filter posts by userId",
	"default/GET/filter posts by invalid userId returns empty list",
	"default/POST/create post",
	"default/POST/create post with id already in use",
	"default/PUT/update post",
	"default/PUT/update post that does not exist",
	"default/DELETE/delete post",
	"default/DELETE/delete post that does not exist",
}

func newFakeAPI() *fakeapi.Server {
	return fakeapi.NewServer(fakeapi.NewStore(fakeapi.SeedPosts(100)), fakeapi.DefaultPathPrefix)
}

func runSuiteAgainst(
	t *testing.T,
	handler http.Handler,
	parameterSets []ParameterSet,
	filter framework.Filter,
) framework.Results {
	t.Helper()
	var results framework.Results
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		harness, err := framework.NewTestHarness(framework.HarnessConfig{
			BaseURL:    server.URL + fakeapi.DefaultPathPrefix,
			StatusPath: postsPath,
		}, nil, nil)
		require.NoError(t, err)
		results = RunTestSuite(harness, parameterSets, filter, nil)
	})
	return results
}

func testIDs(results []framework.TestResult) []string {
	ret := make([]string, 0, len(results))
	for _, r := range results {
		ret = append(ret, r.TestID.String())
	}
	sort.Strings(ret)
	return ret
}

func sorted(ss []string) []string {
	ret := append([]string(nil), ss...)
	sort.Strings(ret)
	return ret
}

func TestSuitePassesAgainstConformingServer(t *testing.T) {
	results := runSuiteAgainst(t, newFakeAPI(), []ParameterSet{DefaultParameterSet()}, nil)

	for _, f := range results.Failures {
		t.Errorf("unexpected failure in %s: %v", f.TestID, f.Errors)
	}
	assert.Equal(t, sorted(allDefaultTestIDs), testIDs(results.Tests))
}

func TestSuiteRunsEachParameterSetAgainstSharedState(t *testing.T) {
	sets, err := LoadParameterSets("testdata/two_sets.yaml")
	require.NoError(t, err)

	results := runSuiteAgainst(t, newFakeAPI(), sets, nil)

	for _, f := range results.Failures {
		t.Errorf("unexpected failure in %s: %v", f.TestID, f.Errors)
	}
	assert.Len(t, results.Tests, 2*len(allDefaultTestIDs))
}

func TestSecondPassFailsWhenItDeletesAnAlreadyDeletedPost(t *testing.T) {
	results := runSuiteAgainst(t, newFakeAPI(), []ParameterSet{
		DefaultParameterSet(),
		{Name: "again", PostID: 1, UserID: 3, Title: "t", Body: "b", DeletePostID: ldvalue.NewOptionalInt(2)},
	}, nil)

	assert.Equal(t, []string{"again/DELETE/delete post"}, testIDs(results.Failures))
}

func TestFilterLimitsWhichScenariosRun(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("/GET"))

	store := fakeapi.NewStore(fakeapi.SeedPosts(100))
	server := fakeapi.NewServer(store, fakeapi.DefaultPathPrefix)
	results := runSuiteAgainst(t, server, []ParameterSet{DefaultParameterSet()}, filters.AsFilter)

	assert.True(t, results.OK())
	for _, id := range testIDs(results.Tests) {
		assert.NotContains(t, id, "POST")
		assert.NotContains(t, id, "DELETE")
	}
	assert.Len(t, store.List(nil), 100, "no mutations should have been made")
}

func TestEveryScenarioFailsIndependentlyAgainstBrokenServer(t *testing.T) {
	handler := httphelpers.SequentialHandler(
		httphelpers.HandlerWithStatus(200), // status query at startup
		httphelpers.HandlerWithStatus(503),
	)
	results := runSuiteAgainst(t, handler, []ParameterSet{DefaultParameterSet()}, nil)

	assert.Equal(t, sorted([]string{
		"default/GET/list all posts",
		"default/GET/get post by id",
		"default/GET/get post with invalid id",
		"default/GET/filter posts by userId",
		"default/GET/filter posts by invalid userId returns empty list",
		"default/POST/create post",
		"default/POST/create post with id already in use",
		"default/PUT/update post",
		"default/PUT/update post that does not exist",
		"default/DELETE/delete post",
		"default/DELETE/delete post that does not exist",
	}), testIDs(results.Failures))
}

func TestTransportFailureOnlyFailsItsOwnScenario(t *testing.T) {
	handler := httphelpers.SequentialHandler(
		httphelpers.HandlerWithStatus(200),
		httphelpers.BrokenConnectionHandler(),
	)
	results := runSuiteAgainst(t, handler, []ParameterSet{DefaultParameterSet()}, nil)

	assert.Len(t, results.Failures, 11)
	assert.Len(t, results.Tests, len(allDefaultTestIDs))
}

func TestFilterByUserFailsIfServerIgnoresFilter(t *testing.T) {
	fake := newFakeAPI()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.RawQuery = "" // server that ignores ?userId entirely
		fake.ServeHTTP(w, r)
	})
	results := runSuiteAgainst(t, handler, []ParameterSet{DefaultParameterSet()}, nil)

	assert.Equal(t, []string{
		"default/GET/filter posts by invalid userId returns empty list",
		"default/GET/filter posts by userId",
	}, testIDs(results.Failures))
}

func TestCreateFailsIfServerDoesNotStoreFields(t *testing.T) {
	fake := newFakeAPI()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// accept the request but respond with an id whose post has different content
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(201)
			_, _ = w.Write([]byte(`{"data":{"id":50}}`))
			return
		}
		fake.ServeHTTP(w, r)
	})
	results := runSuiteAgainst(t, handler, []ParameterSet{DefaultParameterSet()}, nil)

	require.Equal(t, []string{
		"default/POST/create post",
		"default/POST/create post with id already in use",
	}, testIDs(results.Failures))
	createFailure := results.Failures[0]
	if createFailure.TestID.String() != "default/POST/create post" {
		createFailure = results.Failures[1]
	}
	assert.Len(t, createFailure.Errors, 3, "title, body and userId should each be reported")
}

func TestUpdateAndDeleteFailIfServerIgnoresMutations(t *testing.T) {
	fake := newFakeAPI()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutatesExistingPost := (r.Method == http.MethodPut || r.Method == http.MethodDelete) &&
			!strings.HasSuffix(r.URL.Path, "/posts/0")
		if mutatesExistingPost {
			// report success without changing anything
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"data":{}}`))
			return
		}
		fake.ServeHTTP(w, r)
	})
	results := runSuiteAgainst(t, handler, []ParameterSet{DefaultParameterSet()}, nil)

	assert.Equal(t, []string{
		"default/DELETE/delete post",
		"default/PUT/update post",
	}, testIDs(results.Failures))
}

func TestUpdateFailsIfIgnoredEvenWhenPostAlreadyHasFixtureValues(t *testing.T) {
	store := fakeapi.NewStore(fakeapi.SeedPosts(100))
	_, err := store.Replace(1, fakeapi.Post{Title: "title", Body: "body", UserID: 1})
	require.NoError(t, err)
	fake := fakeapi.NewServer(store, fakeapi.DefaultPathPrefix)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			r.Method = http.MethodGet // answer with the unchanged post
		}
		fake.ServeHTTP(w, r)
	})
	results := runSuiteAgainst(t, handler, []ParameterSet{DefaultParameterSet()}, nil)

	assert.Equal(t, []string{"default/PUT/update post"}, testIDs(results.Failures))
}
