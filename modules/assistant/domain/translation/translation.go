// Package translation defines the contract with the natural-language-to-SQL
// service. The translator is a black box: it receives a question plus the
// warehouse schema and returns candidate SQL. Nothing it returns is trusted;
// every result it produces goes through scope post-filtering.
package translation

import "context"

type Request struct {
	Question string
	// PriorSQL and Refinement are set when the user asks to adjust the
	// previous answer in the same thread.
	PriorSQL   string
	Refinement string
}

type Result struct {
	SQL string
}

type Client interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
