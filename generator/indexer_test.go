// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

import "testing"

func TestIndexerResolveNullTokenAlwaysZero(t *testing.T) {
	ix := NewIndexer()
	off, err := ix.Resolve(NullToken)
	if err != nil || off != 0 {
		t.Fatalf("Resolve(NullToken) = (%d, %v), want (0, nil)", off, err)
	}
}

func TestIndexerResolveKnownToken(t *testing.T) {
	ix := NewIndexer()
	ix.Add(Token(5), 0x40, nil)
	off, err := ix.Resolve(Token(5))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if off != 0x40 {
		t.Fatalf("Resolve(5) = %d, want 0x40", off)
	}
}

func TestIndexerResolveUnknownTokenFails(t *testing.T) {
	ix := NewIndexer()
	ix.Add(Token(5), 0x40, nil)
	if _, err := ix.Resolve(Token(99)); err == nil {
		t.Fatalf("Resolve of an unregistered token should fail")
	}
}

func TestMemRepositoryAddAndGetObjects(t *testing.T) {
	repo := NewMemRepository()
	repo.AddObject(ObjIortITSGroup, Token(1), "a")
	repo.AddObject(ObjIortITSGroup, Token(2), "b")

	count, err := repo.Count(ObjIortITSGroup)
	if err != nil || count != 2 {
		t.Fatalf("Count = (%d, %v), want (2, nil)", count, err)
	}

	objs, n, err := repo.GetObjects(ObjIortITSGroup, NullToken)
	if err != nil || n != 2 || len(objs) != 2 {
		t.Fatalf("GetObjects(NullToken) = (%v, %d, %v), want 2 objects", objs, n, err)
	}

	filtered, n, err := repo.GetObjects(ObjIortITSGroup, Token(2))
	if err != nil || n != 1 || filtered[0] != "b" {
		t.Fatalf("GetObjects(token=2) = (%v, %d, %v), want [\"b\"]", filtered, n, err)
	}
}

func TestMemRepositoryUnknownObjectIDIsEmpty(t *testing.T) {
	repo := NewMemRepository()
	count, err := repo.Count(ObjIortPMCG)
	if err != nil || count != 0 {
		t.Fatalf("Count of an unregistered id = (%d, %v), want (0, nil)", count, err)
	}
}
