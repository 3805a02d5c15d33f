package manifest

// fileRoot decodes the top-level blocks of a manifest file.
type fileRoot struct {
	Suites []*suiteBlock `hcl:"suite,block"`
}

// suiteBlock represents a `suite` block.
type suiteBlock struct {
	Name        string       `hcl:"name,label"`
	Description string       `hcl:"description,optional"`
	Strict      bool         `hcl:"strict,optional"`
	Tests       []*testBlock `hcl:"test,block"`
}

// testBlock represents a `test` block inside a suite.
type testBlock struct {
	Name          string   `hcl:"name,label"`
	CorrelationID string   `hcl:"correlation_id,optional"`
	Description   string   `hcl:"description,optional"`
	Skip          bool     `hcl:"skip,optional"`
	SkipReason    string   `hcl:"skip_reason,optional"`
	Tags          []string `hcl:"tags,optional"`
}
