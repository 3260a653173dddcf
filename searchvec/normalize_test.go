package searchvec

import (
	check "gopkg.in/check.v1"
)

// Initialize and register a pointer instance of the normalizeTestSuite to
// be executed by check testing package.
var _ = check.Suite(new(normalizeTestSuite))

// normalizeTestSuite groups the text normalization tests.
type normalizeTestSuite struct{}

// TestNormalizeTrimsAndDedups verifies trimming, empty-entry removal and
// case-sensitive deduplication.
func (s *normalizeTestSuite) TestNormalizeTrimsAndDedups(c *check.C) {
	got := Normalize([]string{" Testing ", "Testing", "", "QA"})
	c.Assert(got, check.DeepEquals, []string{"Testing", "QA"})
}

// TestNormalizeIsCaseSensitive verifies that values differing only in
// case are kept as distinct entries.
func (s *normalizeTestSuite) TestNormalizeIsCaseSensitive(c *check.C) {
	got := Normalize([]string{"Testing", " testing ", "QA"})
	c.Assert(got, check.DeepEquals, []string{"Testing", "testing", "QA"})
}

// TestNormalizeWithEmptyInput verifies that all-empty input yields an
// empty result.
func (s *normalizeTestSuite) TestNormalizeWithEmptyInput(c *check.C) {
	c.Assert(Normalize(nil), check.HasLen, 0)
	c.Assert(Normalize([]string{"", "   "}), check.HasLen, 0)
}

// TestKeywordBagFlattens verifies that scalar and list inputs are
// flattened in order with empties dropped and duplicates preserved.
func (s *normalizeTestSuite) TestKeywordBagFlattens(c *check.C) {
	got := KeywordBag(
		[]string{"Programming", "", " beginner "},
		[]string{"Go", "Go"},
		[]string{"  ", "Testing"},
	)

	c.Assert(got, check.DeepEquals, []string{
		"Programming", "beginner", "Go", "Go", "Testing",
	})
}
