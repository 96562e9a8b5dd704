package pulse

import (
	"sort"

	"github.com/qdlab/pulsec/internal/param"
)

// cloneDecls deep-copies a declaration map.
func cloneDecls(decls map[string]param.Declaration) map[string]param.Declaration {
	out := make(map[string]param.Declaration, len(decls))
	for name, d := range decls {
		out[name] = d.Clone()
	}
	return out
}

// mergeDecls layers declaration maps; earlier maps win on name conflicts, so
// sub-templates sharing a parameter name share one declaration.
func mergeDecls(maps ...map[string]param.Declaration) map[string]param.Declaration {
	out := make(map[string]param.Declaration)
	for _, m := range maps {
		for name, d := range m {
			if _, ok := out[name]; !ok {
				out[name] = d.Clone()
			}
		}
	}
	return out
}

// namesOf returns the key set of a declaration map.
func namesOf(decls map[string]param.Declaration) map[string]struct{} {
	out := make(map[string]struct{}, len(decls))
	for name := range decls {
		out[name] = struct{}{}
	}
	return out
}

// sortedDeclarations returns declarations ordered by name, for deterministic
// checking and error reporting.
func sortedDeclarations(decls map[string]param.Declaration) []param.Declaration {
	out := make([]param.Declaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// cloneWindows copies a window list.
func cloneWindows(windows []Window) []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	return out
}

// declMap builds a declaration map from a list, rejecting duplicates.
func declMap(decls []param.Declaration) (map[string]param.Declaration, error) {
	out := make(map[string]param.Declaration, len(decls))
	for _, d := range decls {
		if _, ok := out[d.Name]; ok {
			return nil, &duplicateDeclarationError{Name: d.Name}
		}
		out[d.Name] = d.Clone()
	}
	return out, nil
}

type duplicateDeclarationError struct {
	Name string
}

func (e *duplicateDeclarationError) Error() string {
	return "parameter \"" + e.Name + "\" declared more than once"
}
