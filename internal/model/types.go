package model

// Preamble opens every fact corpus, with no separator before the first fact.
const Preamble = "These are the local experts."

// FactDocument is one local-expert record from the fact feed.
type FactDocument struct {
	Fact string `json:"fact" bson:"fact"`
}

// SearchResult is one ranked hit from the search index.
type SearchResult struct {
	Chunk string `json:"chunk"`
}

// AskResult is what the pipeline produced for one question.
type AskResult struct {
	Question string
	Corpus   string
	Answer   string
}
