package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocument_DecodesStringOrArrayAuthors(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"rel_title":   "T",
		"author_name": "Doe, J",
		"author_inst": bson.A{"MIT", "Harvard"},
	})
	require.NoError(t, err)

	var doc Document
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, StringList{"Doe, J"}, doc.AuthorName)
	assert.Equal(t, StringList{"MIT", "Harvard"}, doc.AuthorInst)
}

func TestDocument_DecodesMissingAndNullAuthors(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"rel_title": "T", "author_inst": nil})
	require.NoError(t, err)

	var doc Document
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Nil(t, doc.AuthorName)
	assert.Nil(t, doc.AuthorInst)
}

func TestStringList_RejectsWrongType(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"author_inst": 42})
	require.NoError(t, err)

	var doc Document
	assert.Error(t, bson.Unmarshal(raw, &doc))
}

func TestStringList_KeepsStoredShape(t *testing.T) {
	raw, err := bson.Marshal(Document{AuthorName: StringList{"Doe, J"}, AuthorInst: StringList{"MIT", "Harvard"}})
	require.NoError(t, err)

	var stored bson.M
	require.NoError(t, bson.Unmarshal(raw, &stored))
	assert.Equal(t, "Doe, J", stored["author_name"])
	assert.Equal(t, bson.A{"MIT", "Harvard"}, stored["author_inst"])

	out, err := json.Marshal(Document{AuthorName: StringList{"Doe, J"}, AuthorInst: StringList{"MIT", "Harvard"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"author_name":"Doe, J"`)
	assert.Contains(t, string(out), `"author_inst":["MIT","Harvard"]`)

	var back StringList
	require.NoError(t, json.Unmarshal([]byte(`"Doe, J"`), &back))
	assert.Equal(t, StringList{"Doe, J"}, back)
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &back))
	assert.Equal(t, StringList{"a", "b"}, back)
}
