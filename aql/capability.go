package aql

// Capability interfaces implemented by the state types of generated
// packages. S is the state an operation produces.
type (
	// BuildableState may finish the statement.
	BuildableState interface {
		Build() (Query, error)
	}

	// FilterableState may open a filter clause.
	FilterableState[S any] interface {
		Filter() S
	}

	// LimitableState may cap the number of results.
	LimitableState[S any] interface {
		Limit(n int) S
	}

	// LogicallyOperatableState may join conditions.
	LogicallyOperatableState[S any] interface {
		And() S
		Or() S
	}

	// SortableState may order results by a field of type F.
	SortableState[F ~string, S any] interface {
		Sort(field F, dir SortDirection) S
	}

	// ReplaceableState may replace whole documents with a record of type T.
	ReplaceableState[T, S any] interface {
		ReplaceWith(elem T) S
	}
)

// MustBuild is Build for statements known to be valid. It panics if the
// statement cannot be built.
func MustBuild[S BuildableState](s S) Query {
	q, err := s.Build()
	if err != nil {
		panic(err)
	}
	return q
}
