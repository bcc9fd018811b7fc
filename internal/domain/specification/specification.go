package specification

import "strings"

// Specification is a predicate over T that can also be pushed down to SQL.
// IsSatisfiedBy and ToSQL must agree.
type Specification[T any] interface {
	// IsSatisfiedBy checks if the specification is satisfied by the given candidate
	IsSatisfiedBy(candidate T) bool
	// ToSQL converts the specification to a WHERE fragment and its parameters
	ToSQL() (string, []interface{})
}

// True is satisfied by every candidate.
func True[T any]() Specification[T] {
	return trueSpecification[T]{}
}

// And combines specifications conjunctively. Nil entries are skipped and
// an empty conjunction is True.
func And[T any](specs ...Specification[T]) Specification[T] {
	parts := make([]Specification[T], 0, len(specs))
	for _, s := range specs {
		if s != nil {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return True[T]()
	case 1:
		return parts[0]
	}
	return &andSpecification[T]{parts: parts}
}

// Or combines specifications disjunctively.
func Or[T any](left, right Specification[T]) Specification[T] {
	return &orSpecification[T]{left: left, right: right}
}

// Not negates a specification.
func Not[T any](spec Specification[T]) Specification[T] {
	return &notSpecification[T]{spec: spec}
}

type trueSpecification[T any] struct{}

func (trueSpecification[T]) IsSatisfiedBy(T) bool { return true }

func (trueSpecification[T]) ToSQL() (string, []interface{}) { return "1 = 1", nil }

type andSpecification[T any] struct {
	parts []Specification[T]
}

func (s *andSpecification[T]) IsSatisfiedBy(candidate T) bool {
	for _, p := range s.parts {
		if !p.IsSatisfiedBy(candidate) {
			return false
		}
	}
	return true
}

func (s *andSpecification[T]) ToSQL() (string, []interface{}) {
	clauses := make([]string, 0, len(s.parts))
	var params []interface{}
	for _, p := range s.parts {
		sql, args := p.ToSQL()
		clauses = append(clauses, "("+sql+")")
		params = append(params, args...)
	}
	return strings.Join(clauses, " AND "), params
}

type orSpecification[T any] struct {
	left  Specification[T]
	right Specification[T]
}

func (s *orSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.left.IsSatisfiedBy(candidate) || s.right.IsSatisfiedBy(candidate)
}

func (s *orSpecification[T]) ToSQL() (string, []interface{}) {
	leftSQL, leftParams := s.left.ToSQL()
	rightSQL, rightParams := s.right.ToSQL()

	params := make([]interface{}, 0, len(leftParams)+len(rightParams))
	params = append(params, leftParams...)
	params = append(params, rightParams...)

	return "(" + leftSQL + ") OR (" + rightSQL + ")", params
}

type notSpecification[T any] struct {
	spec Specification[T]
}

func (s *notSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return !s.spec.IsSatisfiedBy(candidate)
}

func (s *notSpecification[T]) ToSQL() (string, []interface{}) {
	sql, params := s.spec.ToSQL()
	return "NOT (" + sql + ")", params
}
