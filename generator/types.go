// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package generator assembles byte-exact ACPI tables (MADT, MCFG, SRAT,
// IORT) from a repository of abstract platform-description objects, the
// mirror image of the inspector core in the parent package.
package generator

import (
	"errors"
	"fmt"
)

// Token is an opaque, monotone cross-reference token assigned to an abstract
// platform object at creation. Relationships between objects are expressed
// as tokens, never as pointers or offsets, until the emission pass resolves
// them.
type Token uint32

// NullToken means "no reference"; resolving it always yields offset zero.
const NullToken Token = 0

// ObjectID names a class of abstract platform object within the repository's
// namespaced object-id space (one namespace per target table/profile).
type ObjectID string

// Object-id values used by the node kinds this package emits.
const (
	ObjMadtGICC ObjectID = "madt.gicc"
	ObjMadtGICD ObjectID = "madt.gicd"

	ObjMcfgAllocation ObjectID = "mcfg.allocation"

	ObjSratMemoryAffinity ObjectID = "srat.memory_affinity"
	ObjSratGICCAffinity   ObjectID = "srat.gicc_affinity"

	ObjIortITSGroup       ObjectID = "iort.its_group"
	ObjIortNamedComponent ObjectID = "iort.named_component"
	ObjIortRootComplex    ObjectID = "iort.root_complex"
	ObjIortSMMUv1v2       ObjectID = "iort.smmu_v1_v2"
	ObjIortPMCG           ObjectID = "iort.pmcg"
)

// ErrNotFound marks an unknown object-id, for Repository implementations
// that distinguish "empty" from "unknown" (see notFoundf). MemRepository
// never returns it, and the Generate* functions return any GetObjects error,
// ErrNotFound included, to their caller unchanged.
var ErrNotFound = errors.New("generator: object id not found")

// Repository is the abstract platform-object store the generator depends on
// (§4.8). It stores objects with no knowledge of ACPI layout; lifetimes are
// owned by the repository until removed.
type Repository interface {
	// Count returns the number of objects registered under id. A missing id
	// is not an error: implementations return (0, nil).
	Count(id ObjectID) (int, error)

	// GetObjects returns an owned copy of every object registered under id
	// (optionally filtered to one matching token), plus the count. A missing
	// id returns (nil, 0, nil).
	GetObjects(id ObjectID, token Token) ([]interface{}, int, error)

	// AddObject appends one object under id+token, creating the list if it
	// does not yet exist.
	AddObject(id ObjectID, token Token, object interface{}) error

	// AddObjects appends every object in objects under id+token.
	AddObjects(id ObjectID, token Token, objects []interface{}) error
}

// MemRepository is an in-memory Repository, the only implementation this
// package ships — a production caller backs Repository with whatever store
// holds the platform description (config file, device tree, management
// firmware), which is explicitly out of scope (§1).
type MemRepository struct {
	objects map[ObjectID][]entry
}

type entry struct {
	token Token
	value interface{}
}

// NewMemRepository returns an empty in-memory repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{objects: make(map[ObjectID][]entry)}
}

func (r *MemRepository) Count(id ObjectID) (int, error) {
	return len(r.objects[id]), nil
}

func (r *MemRepository) GetObjects(id ObjectID, token Token) ([]interface{}, int, error) {
	var out []interface{}
	for _, e := range r.objects[id] {
		if token != NullToken && e.token != token {
			continue
		}
		out = append(out, e.value)
	}
	return out, len(out), nil
}

func (r *MemRepository) AddObject(id ObjectID, token Token, object interface{}) error {
	r.objects[id] = append(r.objects[id], entry{token: token, value: object})
	return nil
}

func (r *MemRepository) AddObjects(id ObjectID, token Token, objects []interface{}) error {
	for _, o := range objects {
		if err := r.AddObject(id, token, o); err != nil {
			return err
		}
	}
	return nil
}

// notFoundf builds an ErrNotFound-wrapping error naming id, for Repository
// implementations backed by a store that distinguishes "empty" from
// "unknown".
func notFoundf(id ObjectID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
