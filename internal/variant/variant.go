// Package variant groups icon identifiers into families of density
// variants ("Folder.png" and "Folder@2x.png") and picks the renditions a
// catalog shows for each family.
package variant

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// RetinaSuffix marks a high-density rendition. Matched case-insensitively
// at the end of the stem.
const RetinaSuffix = "@2x"

// GroupKey identifies a family: the stem without its density suffix plus
// the extension, both case-folded.
type GroupKey struct {
	Stem string
	Ext  string
}

// Family is a set of names sharing a GroupKey.
type Family struct {
	Key GroupKey
	// Members in descending ordinal order.
	Members []string
	// Primary is the first retina member, or Members[0] if there is none.
	Primary string
	// Secondary is Members[1] when the family has more than one member.
	// It is whatever sorts second and may equal Primary.
	Secondary string
}

// HasSecondary reports whether the family has a second rendition.
func (f Family) HasSecondary() bool { return len(f.Members) > 1 }

// Split returns the part before and the part after the last '.'.
// A name without a '.' is all stem.
func Split(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// IsRetina reports whether the stem of name ends with "@2x" in any case.
func IsRetina(name string) bool {
	stem, _ := Split(name)
	return hasRetinaSuffix(stem)
}

func hasRetinaSuffix(stem string) bool {
	n := len(RetinaSuffix)
	return len(stem) >= n && strings.EqualFold(stem[len(stem)-n:], RetinaSuffix)
}

// Key computes the GroupKey of a name. It is pure and total.
func Key(name string) GroupKey {
	return keyWith(cases.Fold(), name)
}

func keyWith(fold cases.Caser, name string) GroupKey {
	stem, ext := Split(name)
	if hasRetinaSuffix(stem) {
		stem = stem[:len(stem)-len(RetinaSuffix)]
	}
	return GroupKey{Stem: fold.String(stem), Ext: fold.String(ext)}
}

// Group partitions names into families. Exact duplicates are collapsed.
// Families are ordered by Primary, case-insensitively, with ties broken by
// raw ordinal so the output is deterministic.
func Group(names []string) []Family {
	if len(names) == 0 {
		return nil
	}

	// Casers carry state; one per call keeps Group safe for concurrent use.
	fold := cases.Fold()

	index := make(map[GroupKey]int)
	var families []Family
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		k := keyWith(fold, name)
		i, ok := index[k]
		if !ok {
			i = len(families)
			index[k] = i
			families = append(families, Family{Key: k})
		}
		families[i].Members = append(families[i].Members, name)
	}

	folded := make(map[string]string, len(families))
	for i := range families {
		f := &families[i]
		slices.SortFunc(f.Members, func(a, b string) int { return strings.Compare(b, a) })
		f.Primary = f.Members[0]
		for _, m := range f.Members {
			if IsRetina(m) {
				f.Primary = m
				break
			}
		}
		if len(f.Members) > 1 {
			f.Secondary = f.Members[1]
		}
		folded[f.Primary] = fold.String(f.Primary)
	}

	slices.SortFunc(families, func(a, b Family) int {
		if c := strings.Compare(folded[a.Primary], folded[b.Primary]); c != 0 {
			return c
		}
		return strings.Compare(a.Primary, b.Primary)
	})
	return families
}
