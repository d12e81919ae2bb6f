package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehandley/servo/internal/ir"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "contracts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testSet(runID string) *ir.ContractSet {
	return &ir.ContractSet{
		RunID: runID,
		Interfaces: []ir.InterfaceContract{
			{
				Name: "Node",
				Members: []ir.ContractMember{
					{Name: "nodeName", Kind: ir.MemberAttribute, Type: "DOMString", ReadOnly: true, Origin: ir.OriginOwn},
				},
				Hash: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			},
			{
				Name:    "Element",
				Parent:  "Node",
				Members: []ir.ContractMember{},
				Hash:    "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
			},
		},
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.PutContractSet(context.Background(), testSet("run-1")))
	require.NoError(t, st.Close())

	// Reopening an existing store keeps its rows.
	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	infos, err := st.ListContracts(context.Background())
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestPutAndGetContract(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.PutContractSet(ctx, testSet("run-1")))

	c, err := st.GetContract(ctx, "Node")
	require.NoError(t, err)
	assert.Equal(t, "Node", c.Name)
	require.Len(t, c.Members, 1)
	assert.Equal(t, "nodeName", c.Members[0].Name)
	assert.True(t, c.Members[0].ReadOnly)
}

func TestGetContract_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetContract(context.Background(), "Ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByHash(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.PutContractSet(ctx, testSet("run-1")))

	c, err := st.GetByHash(ctx, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	require.NoError(t, err)
	assert.Equal(t, "Element", c.Name)

	_, err = st.GetByHash(ctx, "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutContractSet_UpsertsByName(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.PutContractSet(ctx, testSet("run-1")))

	// A later run re-emits Node with new content.
	update := &ir.ContractSet{
		RunID: "run-2",
		Interfaces: []ir.InterfaceContract{
			{
				Name:    "Node",
				Members: []ir.ContractMember{},
				Hash:    "dddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd",
			},
		},
	}
	require.NoError(t, st.PutContractSet(ctx, update))

	c, err := st.GetContract(ctx, "Node")
	require.NoError(t, err)
	assert.Empty(t, c.Members)
	assert.Equal(t, "dddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd", c.Hash)

	// Interfaces absent from the later run are untouched.
	infos, err := st.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "run-1", infoFor(t, infos, "Element").RunID)
	assert.Equal(t, "run-2", infoFor(t, infos, "Node").RunID)
}

func infoFor(t *testing.T, infos []ContractInfo, name string) ContractInfo {
	t.Helper()
	for _, info := range infos {
		if info.Name == name {
			return info
		}
	}
	t.Fatalf("no listing for %q", name)
	return ContractInfo{}
}

func TestListContracts_OrderedByName(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.PutContractSet(ctx, testSet("run-1")))

	infos, err := st.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "Element", infos[0].Name)
	assert.Equal(t, "Node", infos[1].Name)
}

func TestListContracts_EmptyStore(t *testing.T) {
	st := openTestStore(t)

	infos, err := st.ListContracts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, infos)
	assert.Empty(t, infos)
}
