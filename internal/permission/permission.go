package permission

import (
	"fmt"
	"strings"
)

type Access string

const (
	Read  Access = "read"
	Write Access = "write"
)

type Permission struct {
	Kind   Kind
	Access Access
}

func (p Permission) String() string {
	return string(p.Kind) + ":" + string(p.Access)
}

// Set is the ordered list of permissions requested by a single call.
// Duplicates are allowed.
type Set []Permission

func (s Set) Kinds(access Access) []Kind {
	var out []Kind
	for _, p := range s {
		if p.Access == access {
			out = append(out, p.Kind)
		}
	}
	return out
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ResolveError reports one identifier that could not be resolved.
type ResolveError struct {
	Access     Access
	Index      int
	Identifier string
}

func (e *ResolveError) Error() string {
	field := e.Access.field()
	if e.Identifier == "" {
		return fmt.Sprintf("%s[%d] is null", field, e.Index)
	}
	return fmt.Sprintf("%s[%d]: %s %q", field, e.Index, ErrUnknownKind, e.Identifier)
}

func (e *ResolveError) Unwrap() error { return ErrUnknownKind }

func (a Access) field() string {
	if a == Write {
		return "writePermissions"
	}
	return "readPermissions"
}

// Resolve turns read and write identifiers into a Set. Bad entries are
// reported individually and skipped; the rest still resolve. Reads come
// first, then writes, each in input order.
func Resolve(read []string, write []string) (Set, []error) {
	set := make(Set, 0, len(read)+len(write))
	var errs []error

	resolve := func(ids []string, access Access) {
		for i, id := range ids {
			kind, err := ParseKind(id)
			if err != nil {
				errs = append(errs, &ResolveError{Access: access, Index: i, Identifier: id})
				continue
			}
			set = append(set, Permission{Kind: kind, Access: access})
		}
	}

	resolve(read, Read)
	resolve(write, Write)

	return set, errs
}
