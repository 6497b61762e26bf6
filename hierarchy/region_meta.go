package hierarchy

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// BackgroundID is the synthetic root of the forest. It is its own parent and
// is excluded from real traversals.
const BackgroundID = 0

// RegionMeta holds the hierarchical brain region metadata, typically parsed
// from a brainregion_hierarchy.json file. Immutable after Load; safe for
// unsynchronized concurrent reads.
type RegionMeta struct {
	RootID      int
	Names       map[int]string
	STLevel     map[int]*int
	ParentID    map[int]int
	ChildrenIDs map[int][]int
}

// LoadError represents a missing or corrupt hierarchy file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return "load hierarchy " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewRegionMeta returns an empty hierarchy seeded with the background node.
func NewRegionMeta() *RegionMeta {
	return &RegionMeta{
		Names:       map[int]string{BackgroundID: "background"},
		STLevel:     map[int]*int{BackgroundID: nil},
		ParentID:    map[int]int{BackgroundID: BackgroundID},
		ChildrenIDs: map[int][]int{BackgroundID: {}},
	}
}

// Children returns the direct children of a region, in stored insertion
// order. A leaf or unknown id yields an empty slice, never an error.
func (m *RegionMeta) Children(regionID int) []int {
	return m.ChildrenIDs[regionID]
}

// Descendants collects all descendants of the given regions, inclusive of
// the input ids themselves. The traversal is an explicit worklist over the
// id-indexed maps, so depth is unbounded and a malformed hierarchy with a
// cycle still terminates.
func (m *RegionMeta) Descendants(ids ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(ids))
	stack := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = struct{}{}
		stack = append(stack, id)
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range m.ChildrenIDs[id] {
			if _, seen := out[child]; seen {
				continue
			}
			out[child] = struct{}{}
			stack = append(stack, child)
		}
	}

	return out
}

// regionMetaFile is the serialized shape of the hierarchy. JSON object keys
// are strings, so ids are converted on the way in and out.
type regionMetaFile struct {
	RootID      *int              `json:"root_id"`
	Names       map[string]string `json:"names"`
	STLevel     map[string]*int   `json:"st_level"`
	ParentID    map[string]int    `json:"parent_id"`
	ChildrenIDs map[string][]int  `json:"children_ids"`
}

// Load reads a hierarchy configuration file. A missing or malformed file
// yields a *LoadError; callers that want best-effort behavior degrade via
// Resolver instead of ignoring this.
func Load(path string) (*RegionMeta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var file regionMetaFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	m := NewRegionMeta()
	if file.RootID != nil {
		m.RootID = *file.RootID
	}
	if err := intKeys(file.Names, m.Names); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := intKeys(file.STLevel, m.STLevel); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := intKeys(file.ParentID, m.ParentID); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := intKeys(file.ChildrenIDs, m.ChildrenIDs); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return m, nil
}

// Save writes the hierarchy back in the same shape Load reads, so that
// load(save(m)) round-trips.
func (m *RegionMeta) Save(path string) error {
	file := regionMetaFile{
		RootID:      &m.RootID,
		Names:       stringKeys(m.Names),
		STLevel:     stringKeys(m.STLevel),
		ParentID:    stringKeys(m.ParentID),
		ChildrenIDs: stringKeys(m.ChildrenIDs),
	}

	raw, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal hierarchy: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write hierarchy %s: %w", path, err)
	}
	return nil
}

func intKeys[V any](src map[string]V, dst map[int]V) error {
	for k, v := range src {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("non-integer region id %q", k)
		}
		dst[id] = v
	}
	return nil
}

func stringKeys[V any](src map[int]V) map[string]V {
	out := make(map[string]V, len(src))
	for k, v := range src {
		out[strconv.Itoa(k)] = v
	}
	return out
}
