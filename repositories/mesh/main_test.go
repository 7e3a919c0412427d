package mesh

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	meshCategory "genelit/api/models/constants/mesh-category"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadDescriptors(t *testing.T) {
	store := openMemory(t)
	path := filepath.Join(t.TempDir(), "descriptors.tsv")
	require.NoError(t, os.WriteFile(path, []byte(
		"DescriptorUI\tDescriptorName\tTreeNumbers\n"+
			"D001943\tBreast Neoplasms\tC04.588.180|C17.800.090.500\n"+
			"D003920\tDiabetes Mellitus\tC18.452.394.750;C19.246\n"+
			"D001008\tAnxiety Disorders\tF03.080\n"+
			"\tNo Id\tC01\n"), 0o644))

	n, err := store.LoadDescriptors(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	found, err := store.Lookup(context.Background(), []string{"MESH:D001943", "D003920", "mesh:D001008", "MESH:D999999", ""})

	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "Breast Neoplasms", found["MESH:D001943"].Name)
	assert.Equal(t, []string{"C04.588.180", "C17.800.090.500"}, found["MESH:D001943"].TreeNumbers)
	assert.Equal(t, meshCategory.FromTreeNumbers([]string{"C04"}), found["MESH:D001943"].Category())
	assert.Equal(t, "Nutritional and Metabolic Diseases", string(found["D003920"].Category()))
	assert.Equal(t, "Mental Disorders", string(found["mesh:D001008"].Category()))
}

func TestUpsert(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []Descriptor{{UI: "MESH:D001", Name: "old", TreeNumbers: []string{"C01.1"}}}))
	require.NoError(t, store.Upsert(ctx, []Descriptor{{UI: "D001", Name: "new", TreeNumbers: []string{"C02.1"}}}))

	found, err := store.Lookup(ctx, []string{"D001"})
	require.NoError(t, err)
	assert.Equal(t, "new", found["D001"].Name)
	assert.Equal(t, "Virus Diseases", string(found["D001"].Category()))

	count, _ := store.Count(ctx)
	assert.Equal(t, 1, count)
}

func TestLookupEmpty(t *testing.T) {
	store := openMemory(t)

	found, err := store.Lookup(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCategory(t *testing.T) {
	assert.Equal(t, meshCategory.Unknown, Descriptor{TreeNumbers: []string{"A01.1", "G"}}.Category())
	assert.Equal(t, "Neoplasms", string(Descriptor{TreeNumbers: []string{"A01.1", "c04.5"}}.Category()))
}

func TestNormalizeDescriptorId(t *testing.T) {
	assert.Equal(t, "D001943", NormalizeDescriptorId(" MESH:D001943 "))
	assert.Equal(t, "D001943", NormalizeDescriptorId("D001943"))
	assert.Equal(t, "MESH:", NormalizeDescriptorId("MESH:"))
}
