package mining

import (
	"testing"

	"genelit/api/models/evidence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelation(t *testing.T) {
	t.Run("should parse a well formed relation", func(t *testing.T) {
		relation, ok := ParseRelation("100", " MESH:D001 ! BRCA1 ! 0.92 ! Association ")

		require.True(t, ok)
		assert.Equal(t, "100", relation.LiteratureId)
		assert.Equal(t, "MESH:D001", relation.DiseaseId)
		assert.Equal(t, "BRCA1", relation.SubjectKey)
		assert.Equal(t, "Association", relation.AssociationType)
		require.NotNil(t, relation.Score)
		assert.InDelta(t, 0.92, *relation.Score, 1e-9)
	})

	t.Run("should reject anything but four fields", func(t *testing.T) {
		for _, raw := range []string{
			"",
			"MESH:D001",
			"MESH:D001!BRCA1",
			"MESH:D001!BRCA1!0.92",
			"MESH:D001!BRCA1!0.92!Association!extra",
			"a!!b!!c",
		} {
			_, ok := ParseRelation("100", raw)
			assert.False(t, ok, raw)
		}
	})

	t.Run("should reject an empty disease", func(t *testing.T) {
		_, ok := ParseRelation("100", " !BRCA1!0.92!Association")
		assert.False(t, ok)
	})

	t.Run("should keep the record when the score is not numeric", func(t *testing.T) {
		for _, score := range []string{"", "high", "NaN", "Inf"} {
			relation, ok := ParseRelation("100", "MESH:D001!BRCA1!"+score+"!Association")

			require.True(t, ok, score)
			assert.Nil(t, relation.Score, score)
			assert.Equal(t, "BRCA1", relation.SubjectKey)
		}
	})

	t.Run("should pass labels through untouched", func(t *testing.T) {
		relation, ok := ParseRelation("7", "mesh:d001!brca1!1!Positive_Correlation")

		require.True(t, ok)
		assert.Equal(t, "mesh:d001", relation.DiseaseId)
		assert.Equal(t, "brca1", relation.SubjectKey)
		assert.Equal(t, "Positive_Correlation", relation.AssociationType)
	})

	t.Run("should round trip with EncodeRelation", func(t *testing.T) {
		relation, ok := ParseRelation("1", EncodeRelation("MESH:D002", "rs123", "0.5", "Cause"))

		require.True(t, ok)
		assert.Equal(t, "MESH:D002", relation.DiseaseId)
		assert.Equal(t, "rs123", relation.SubjectKey)
		assert.InDelta(t, 0.5, *relation.Score, 1e-9)
		assert.Equal(t, "Cause", relation.AssociationType)
	})
}

func TestNormalizeRows(t *testing.T) {
	rows := []evidence.RelationRow{
		{LiteratureId: "100", Relations: []string{"MESH:D001!BRCA1!0.92!Association"}},
		{LiteratureId: "101", Relations: []string{"MESH:D001!BRCA1!0.88!Association; ;broken;MESH:D002!TP53!x!Cause"}},
		{LiteratureId: "102"},
	}

	relations, dropped := NormalizeRows(rows)

	assert.Equal(t, 1, dropped)
	require.Len(t, relations, 3)
	assert.Equal(t, "100", relations[0].LiteratureId)
	assert.Equal(t, "101", relations[1].LiteratureId)
	assert.Equal(t, "TP53", relations[2].SubjectKey)
	assert.Nil(t, relations[2].Score)
}
