package builder

import (
	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/planner"
)

// Registry maps the WITH items of one statement to their CTE producers.
//
// A Registry belongs to exactly one Convert call. It keeps one scope per WITH
// clause being converted: names are unique within a scope and an inner clause
// shadows the names of the clauses enclosing it. Producers are numbered with
// CTEIDs in creation order and are never removed, so Producers lists every
// producer of the statement even after its scope has been popped.
type Registry struct {
	scopes    []*withScope
	producers []*planner.CTEProducer
	nextID    planner.CTEID
}

type withScope struct {
	declared   map[string]struct{}
	registered map[string]*planner.CTEProducer
}

func NewRegistry() *Registry {
	return &Registry{}
}

// PushScope opens the scope of a WITH clause declaring names. For the whole
// clause a declared name is a CTE reference, never a catalog table.
func (r *Registry) PushScope(names []ast.Identifier) {
	s := &withScope{
		declared:   make(map[string]struct{}, len(names)),
		registered: make(map[string]*planner.CTEProducer, len(names)),
	}
	for _, name := range names {
		s.declared[name.Key()] = struct{}{}
	}
	r.scopes = append(r.scopes, s)
}

// PopScope closes the innermost scope.
func (r *Registry) PopScope() {
	common.Assert(len(r.scopes) > 0, "PopScope without a matching PushScope")
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// NextID hands out the handle for the next producer.
func (r *Registry) NextID() planner.CTEID {
	id := r.nextID
	r.nextID++
	return id
}

// Register binds name to producer in the innermost scope. Registering a name
// twice in the same WITH clause is a DuplicateDeclarationError.
func (r *Registry) Register(name ast.Identifier, producer *planner.CTEProducer) error {
	common.Assert(len(r.scopes) > 0, "Register outside of a WITH scope")
	common.Assert(producer != nil, "registering a nil producer for %s", name)

	s := r.scopes[len(r.scopes)-1]
	if existing, ok := s.registered[name.Key()]; ok {
		return common.NewPlanError(common.DuplicateDeclarationError, name.String(),
			"WITH query name '%s' specified more than once (first declared as %s)", name, existing.ID)
	}
	s.declared[name.Key()] = struct{}{}
	s.registered[name.Key()] = producer
	r.producers = append(r.producers, producer)
	return nil
}

// Declared reports whether an enclosing WITH clause declares name, whether or
// not its producer has been registered yet.
func (r *Registry) Declared(name ast.Identifier) bool {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i].declared[name.Key()]; ok {
			return true
		}
	}
	return false
}

// Lookup returns the producer name refers to from the current position. A
// WITH item only sees the items registered before it, so a declaration whose
// producer does not exist yet is skipped in favor of an enclosing clause.
// When no registered producer is found the lookup fails with
// LookupFailureError.
func (r *Registry) Lookup(name ast.Identifier) (*planner.CTEProducer, error) {
	pending := false
	for i := len(r.scopes) - 1; i >= 0; i-- {
		s := r.scopes[i]
		if producer, ok := s.registered[name.Key()]; ok {
			return producer, nil
		}
		if _, ok := s.declared[name.Key()]; ok {
			pending = true
		}
	}
	if pending {
		return nil, common.NewPlanError(common.LookupFailureError, name.String(),
			"WITH query '%s' is referenced before its definition", name)
	}
	return nil, common.NewPlanError(common.LookupFailureError, name.String(),
		"no WITH query named '%s' is in scope", name)
}

// Producers returns every registered producer in registration order.
func (r *Registry) Producers() []*planner.CTEProducer {
	out := make([]*planner.CTEProducer, len(r.producers))
	copy(out, r.producers)
	return out
}

func (r *Registry) Len() int {
	return len(r.producers)
}
