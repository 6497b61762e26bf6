package hierarchy

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"scholar-retriever/logger"
)

// NameIndex inverts an id -> name mapping into a name -> id lookup.
// Names are matched case-insensitively. When two ids share a case-folded
// name the lowest id wins; the possibility exists in real hierarchy dumps
// and an explicit tie-break keeps the inversion deterministic.
func NameIndex(names map[int]string) map[string]int {
	index := make(map[string]int, len(names))
	for id, name := range names {
		key := strings.ToLower(name)
		if existing, ok := index[key]; ok && existing < id {
			continue
		}
		index[key] = id
	}
	return index
}

// Resolver loads a hierarchy file once and answers best-effort region
// expansion queries. Load and parse failures are absorbed: the region token
// passes through as its own sole descendant. Region filtering is a
// best-effort feature, so a broken hierarchy file must degrade a search,
// not fail it.
type Resolver struct {
	path string

	once  sync.Once
	meta  *RegionMeta
	err   error
	names map[int]string // id -> lowercased name
	index map[string]int // lowercased name -> id
}

// NewResolver creates a Resolver for the given hierarchy file. The file is
// not touched until the first query.
func NewResolver(path string) *Resolver {
	return &Resolver{path: path}
}

func (r *Resolver) load() {
	r.once.Do(func() {
		r.meta, r.err = Load(r.path)
		if r.err != nil {
			return
		}
		r.names = make(map[int]string, len(r.meta.Names))
		for id, name := range r.meta.Names {
			r.names[id] = strings.ToLower(name)
		}
		r.index = NameIndex(r.meta.Names)
	})
}

// DescendantIDs expands a region id token into the ids of all its
// descendants, itself included. A token that is not an integer, or a
// hierarchy file that cannot be read, degrades to the singleton token.
func (r *Resolver) DescendantIDs(token string) []string {
	regionID, err := strconv.Atoi(token)
	if err != nil {
		logger.L().Info("region id is not an integer, keeping only the parent region", "region", token)
		return []string{token}
	}

	r.load()
	if r.err != nil {
		logger.L().Warn("hierarchy file unavailable, keeping only the parent region", "path", r.path, "err", r.err)
		return []string{token}
	}

	descendants := r.meta.Descendants(regionID)
	ids := make([]int, 0, len(descendants))
	for id := range descendants {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}

// ExpandRegionName expands a free-text region name into the names of all
// its descendant regions, itself included. Unknown names pass through
// unchanged as a literal keyword, as do names whose descendants carry no
// names of their own.
func (r *Resolver) ExpandRegionName(name string) []string {
	r.load()
	if r.err != nil {
		logger.L().Warn("hierarchy file unavailable, keeping region as-is", "path", r.path, "err", r.err)
		return []string{name}
	}

	regionID, ok := r.index[strings.ToLower(name)]
	if !ok {
		return []string{name}
	}

	descendants := r.meta.Descendants(regionID)
	ids := make([]int, 0, len(descendants))
	for id := range descendants {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		// the hierarchy may reference ids with no name
		if n, ok := r.names[id]; ok {
			names = append(names, n)
		}
	}

	if len(names) == 0 {
		return []string{name}
	}
	return names
}
