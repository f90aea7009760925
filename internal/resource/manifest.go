package resource

// Op names a mutation of the uniform operation set.
type Op string

const (
	OpCreate         Op = "create"
	OpUpdate         Op = "update"
	OpDelete         Op = "delete"
	OpBulkActivate   Op = "bulk_activate"
	OpBulkDeactivate Op = "bulk_deactivate"
	OpBulkDestroy    Op = "bulk_destroy"
	OpImport         Op = "import"
)

// Target selects which cache scope a mutation invalidates.
type Target int

const (
	TargetLists Target = iota
	TargetDetail
	TargetOptions
)

// Manifest declares, per operation, the cache scopes a successful
// mutation invalidates. Keeping this in one table (instead of inlining
// invalidation at each call site) means a new mutation cannot silently
// forget a scope.
type Manifest map[Op][]Target

// DefaultManifest is the invalidation table shared by every entity.
// Entities whose options feed dropdowns elsewhere also drop the option
// scope on any write.
func DefaultManifest(hasOptions bool) Manifest {
	m := Manifest{
		OpCreate:         {TargetLists},
		OpUpdate:         {TargetLists, TargetDetail},
		OpDelete:         {TargetLists},
		OpBulkActivate:   {TargetLists},
		OpBulkDeactivate: {TargetLists},
		OpBulkDestroy:    {TargetLists},
		OpImport:         {TargetLists},
	}
	if hasOptions {
		for op, targets := range m {
			m[op] = append(targets, TargetOptions)
		}
	}
	return m
}

// keysFor resolves the manifest entry for op into concrete cache keys.
// TargetDetail needs the record id; a zero id resolves to the whole
// detail scope.
func (m Manifest) keysFor(op Op, keys Keys, id int64) []string {
	targets, ok := m[op]
	if !ok {
		return nil
	}
	resolved := make([]string, 0, len(targets))
	for _, t := range targets {
		switch t {
		case TargetLists:
			resolved = append(resolved, keys.Lists())
		case TargetDetail:
			if id > 0 {
				resolved = append(resolved, keys.Detail(id))
			} else {
				resolved = append(resolved, keys.Details())
			}
		case TargetOptions:
			resolved = append(resolved, keys.Options())
		}
	}
	return resolved
}

// resolveTargets maps ad hoc targets (entity-specific mutations) to keys.
func resolveTargets(keys Keys, id int64, targets []Target) []string {
	m := Manifest{Op("custom"): targets}
	return m.keysFor(Op("custom"), keys, id)
}
