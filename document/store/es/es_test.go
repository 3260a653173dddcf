package es

import (
	"os"
	"strings"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/skillstack/searchsync/document/doctest"
)

// Initialize and register an instance of the esStoreTestSuite to be
// executed by check testing package.
var _ = check.Suite(new(esStoreTestSuite))

// Test registers the [check] library with the go testing library and enables
// the running of the test suite using the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

// esStoreTestSuite embeds and runs the BaseSuite tests methods.
type esStoreTestSuite struct {
	store *ElasticsearchStore
	doctest.BaseSuite
}

// SetUpSuite runs only once before all tests in the test suite. it's
// responsible for setting up required resources necessary for
// running the entire suite. ie database setup or reset.
func (s *esStoreTestSuite) SetUpSuite(c *check.C) {
	nodeList := os.Getenv("ES_NODES")
	if nodeList == "" {
		c.Skip("Missing ES_NODES envvar: skipping elasticsearch document store test suite")
	}

	store, err := NewElasticsearchStore(strings.Split(nodeList, ","), true)
	if err != nil {
		c.Fatal(err)
	}

	s.SetStore(store)
	s.store = store
}

// SetUpTest runs before each test in the test suite. it's
// responsible for setting up the necessary environment for
// running that specific test. ie database reset.
func (s *esStoreTestSuite) SetUpTest(c *check.C) {
	// Delete and create a new index / database table.
	if s.store != nil && s.store.client != nil {
		_, err := s.store.client.Indices.Delete([]string{indexName})
		c.Assert(err, check.IsNil)

		err = initIndex(s.store.client)
		c.Assert(err, check.IsNil)
	}
}

// TearDownSuite runs only once after all tests in the test suite. it's
// responsible for releasing all resources that were used to run the entire
// suite. ie dropping the database.
func (s *esStoreTestSuite) TearDownSuite(c *check.C) {
	if s.store != nil && s.store.client != nil {
		_, err := s.store.client.Indices.Delete([]string{indexName})
		c.Assert(err, check.IsNil)
	}
}
