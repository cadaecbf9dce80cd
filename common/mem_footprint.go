package common

import (
	"fmt"
	"sort"
	"strings"
)

// MemoryFootprint describes the memory consumption of a storage structure,
// including its subcomponents.
type MemoryFootprint struct {
	value    uintptr
	children map[string]*MemoryFootprint
}

// NewMemoryFootprint creates a new MemoryFootprint instance with the given
// self-consumption (excluding subcomponents).
func NewMemoryFootprint(value uintptr) *MemoryFootprint {
	return &MemoryFootprint{
		value:    value,
		children: make(map[string]*MemoryFootprint),
	}
}

// AddChild attaches the MemoryFootprint of a subcomponent.
func (mf *MemoryFootprint) AddChild(name string, child *MemoryFootprint) {
	mf.children[name] = child
}

// Value provides the amount of bytes consumed by the structure itself,
// excluding its subcomponents.
func (mf *MemoryFootprint) Value() uintptr {
	return mf.value
}

// Total provides the amount of bytes consumed by the structure including
// all its subcomponents. Shared subcomponents are counted only once.
func (mf *MemoryFootprint) Total() uintptr {
	visited := make(map[*MemoryFootprint]bool)
	return mf.total(visited)
}

func (mf *MemoryFootprint) total(visited map[*MemoryFootprint]bool) (sum uintptr) {
	if visited[mf] {
		return 0
	}
	visited[mf] = true
	sum = mf.value
	for _, child := range mf.children {
		sum += child.total(visited)
	}
	return sum
}

// ToString renders the footprint as a per-component summary,
// using the given name for the root of the tree.
func (mf *MemoryFootprint) ToString(name string) string {
	var sb strings.Builder
	mf.toString(&sb, name)
	return sb.String()
}

func (mf *MemoryFootprint) toString(sb *strings.Builder, path string) {
	fmt.Fprintf(sb, "%d B %s\n", mf.Total(), path)
	names := make([]string, 0, len(mf.children))
	for name := range mf.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mf.children[name].toString(sb, path+"/"+name)
	}
}
