package search

import (
	"github.com/balzaczyy/gosearch/core/config"
)

/*
ApplyConfig installs the limits of cfg as the package defaults. Only
queries and searches created afterwards are affected.
*/
func ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return configErrorf("%v", err)
	}
	s := cfg.Search
	DefaultMaxClauseCount = s.MaxClauseCount
	DefaultMultiTermMaxTerms = s.MultiTermMaxTerms
	DefaultPrefixMaxTerms = s.PrefixMaxTerms
	DefaultWildcardMaxTerms = s.WildcardMaxTerms
	DefaultFuzzyMinSim = s.Fuzzy.MinSimilarity
	DefaultFuzzyPrefixLength = s.Fuzzy.PrefixLength
	DefaultFuzzyMaxTerms = s.Fuzzy.MaxTerms
	DefaultNumDocs = s.DefaultNumDocs
	log.Infof("Applied search limits: max_clause_count=%v multi_term_max_terms=%v default_num_docs=%v",
		s.MaxClauseCount, s.MultiTermMaxTerms, s.DefaultNumDocs)
	return nil
}
